package handlers

import (
	"errors"

	"shopease/internal/domain"
	"shopease/internal/gateway"
	applog "shopease/internal/log"
	"shopease/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	Payments *services.PaymentService
	Orders   *services.OrderService
	KeyID    string
}

// GET /api/payment/key — public identifier only, never the secret.
func (h *PaymentHandler) Key(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"key_id": h.KeyID})
}

type createIntentReq struct {
	Amount int64             `json:"amount"` // paise
	Items  []domain.CartItem `json:"items"`
}

// POST /api/payment/create-order
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentReq
	if err := c.BodyParser(&req); err != nil || req.Amount == 0 {
		return jsonErr(c, fiber.StatusBadRequest, "amount required")
	}

	intent, err := h.Payments.CreateIntent(c.Context(), req.Amount, req.Items)
	if errors.Is(err, services.ErrInvalidAmount) {
		return jsonErr(c, fiber.StatusBadRequest, "amount must be positive")
	}
	if errors.Is(err, gateway.ErrUnavailable) {
		applog.Error(c, "payment.intent.gateway", err, map[string]any{"amount": req.Amount})
		return jsonErr(c, fiber.StatusBadGateway, "payment gateway unavailable")
	}
	if err != nil {
		applog.Error(c, "payment.intent.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not create payment order")
	}

	applog.Audit(c, "payment.intent", map[string]any{"intent_id": intent.ID, "amount": intent.Amount})
	return c.JSON(fiber.Map{"id": intent.ID, "amount": intent.Amount, "currency": "INR"})
}

// POST /api/payment/webhook — the signature covers the exact raw body
// bytes, so this handler hands c.Body() to the service untouched.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("x-razorpay-signature")

	err := h.Payments.HandleWebhook(c.Body(), signature)
	if errors.Is(err, services.ErrSignatureMismatch) {
		applog.Security(c, "payment.webhook.signature", nil)
		return c.Status(fiber.StatusBadRequest).SendString("invalid signature")
	}
	if errors.Is(err, services.ErrMalformedPayload) {
		return c.Status(fiber.StatusBadRequest).SendString("invalid json")
	}
	if err != nil {
		applog.Error(c, "payment.webhook.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString("webhook rejected")
	}
	return c.JSON(fiber.Map{"ok": true})
}

type verifyReq struct {
	PaymentID string `json:"razorpay_payment_id"`
	IntentID  string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// POST /api/payment/verify — verify the checkout callback and reconcile it
// into a durable order for signed-in users.
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req verifyReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "Missing payment details")
	}

	res, err := h.Orders.Finalize(req.IntentID, req.PaymentID, req.Signature, currentUser(c))
	if errors.Is(err, services.ErrMissingPaymentFields) {
		return jsonErr(c, fiber.StatusBadRequest, "Missing payment details")
	}
	if errors.Is(err, services.ErrSignatureMismatch) {
		applog.Security(c, "payment.verify.signature", map[string]any{"intent_id": req.IntentID})
		return jsonErr(c, fiber.StatusForbidden, "Payment verification failed")
	}
	if err != nil {
		applog.Error(c, "payment.verify.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "Payment verification failed")
	}

	if res.Warning != nil {
		// Verified payment, degraded reconciliation. Acknowledge anyway;
		// the client must not retry the payment.
		applog.Error(c, "payment.verify.degraded", res.Warning, map[string]any{"intent_id": req.IntentID})
	} else {
		applog.Audit(c, "payment.verify", map[string]any{"intent_id": req.IntentID, "order_id": res.OrderID})
	}
	return c.JSON(fiber.Map{"ok": true, "orderId": res.OrderID})
}
