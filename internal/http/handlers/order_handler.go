package handlers

import (
	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/services"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// GET /api/orders — the signed-in user's orders, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}
	orders, err := h.Orders.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(orders)
}

type orderCreateReq struct {
	Items           []domain.CartItem `json:"items"`
	ShippingAddress *domain.Address   `json:"shippingAddress"`
	PromoCode       string            `json:"promoCode"`
}

// POST /api/orders/create — direct order path for non-gateway flows.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}

	var req orderCreateReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.Create(u, req.Items, req.ShippingAddress, req.PromoCode)
	if err != nil {
		applog.Error(c, "orders.create.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not create order")
	}

	applog.Audit(c, "orders.create", map[string]any{"order_id": order.ID, "total": order.Total})
	return c.JSON(order)
}
