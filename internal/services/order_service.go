package services

import (
	"time"

	"shopease/internal/domain"
	"shopease/internal/metrics"
	"shopease/internal/repos"
)

// OrderService turns verified payments into durable orders and serves the
// direct (non-gateway) order-create path.
type OrderService struct {
	Orders   *repos.OrderRepo
	Carts    *repos.CartRepo
	Payments *PaymentService
	Notify   *NotifyService
	Metrics  *metrics.PaymentMetrics

	locks *keyLock
}

func NewOrderService(orders *repos.OrderRepo, carts *repos.CartRepo, payments *PaymentService, notify *NotifyService, m *metrics.PaymentMetrics) *OrderService {
	return &OrderService{Orders: orders, Carts: carts, Payments: payments, Notify: notify, Metrics: m, locks: newKeyLock()}
}

// FinalizeResult reports reconciliation. Warning carries a persistence
// fault that degraded the outcome after the payment was already verified;
// the caller logs it but still acknowledges the payment.
type FinalizeResult struct {
	OrderID string
	Order   *domain.Order
	Warning error
}

// Finalize reconciles a verified payment into a durable order: verify the
// callback signature, snapshot the line items, persist the order, clear the
// cart, queue the confirmation email. Redelivery of the same payment is a
// no-op returning the existing order. For guests (user == nil) the payment
// is acknowledged by intent id only and nothing durable is written.
func (s *OrderService) Finalize(intentID, paymentID, signature string, user *domain.User) (FinalizeResult, error) {
	if err := s.Payments.VerifyCallback(intentID, paymentID, signature); err != nil {
		return FinalizeResult{}, err
	}

	unlock := s.locks.Lock("intent:" + intentID)
	defer unlock()

	if user == nil {
		return FinalizeResult{OrderID: intentID}, nil
	}

	// Idempotency: a redelivered callback maps back to its order.
	if existing, err := s.Orders.ByGatewayPayment(paymentID); err != nil {
		return FinalizeResult{OrderID: intentID, Warning: err}, nil
	} else if existing != nil {
		return FinalizeResult{OrderID: existing.ID, Order: existing}, nil
	}

	start := time.Now()
	owner := domain.UserOwner(user.ID)

	// Prefer the intent's recorded snapshot; fall back to the live cart.
	intent, haveIntent := s.Payments.Intent(intentID)
	items := intent.Items
	if len(items) == 0 {
		if cartItems, err := s.Carts.Items(owner); err == nil {
			items = cartItems
		}
	}

	var total int64
	if len(items) > 0 {
		total = Total(items, nil)
	} else if haveIntent {
		total = intent.Amount
	}

	now := time.Now()
	order := &domain.Order{
		ID:                domain.NewOrderID(now),
		UserID:            user.ID,
		Items:             items,
		Total:             total,
		Status:            domain.OrderConfirmed,
		PaymentStatus:     domain.PaymentCompleted,
		GatewayOrderID:    intentID,
		GatewayPaymentID:  paymentID,
		CreatedAt:         now.UnixMilli(),
		EstimatedDelivery: now.Add(domain.EstimatedDeliveryWindow).UnixMilli(),
	}

	if err := s.Orders.Append(order); err != nil {
		// A concurrent finalize may have won the unique gateway-payment
		// index; settle on its order.
		if existing, lookupErr := s.Orders.ByGatewayPayment(paymentID); lookupErr == nil && existing != nil {
			return FinalizeResult{OrderID: existing.ID, Order: existing}, nil
		}
		// Store write failed after verification: degrade, never reverse
		// the verified payment.
		return FinalizeResult{OrderID: intentID, Warning: err}, nil
	}

	if err := s.Carts.Clear(owner); err != nil {
		return FinalizeResult{OrderID: order.ID, Order: order, Warning: err}, nil
	}
	if err := s.Notify.OrderConfirmation(user.Email, order); err != nil {
		return FinalizeResult{OrderID: order.ID, Order: order, Warning: err}, nil
	}

	s.Payments.Forget(intentID)
	s.Metrics.OrderFinalized(time.Since(start))
	return FinalizeResult{OrderID: order.ID, Order: order}, nil
}

// Create is the direct order path for non-gateway flows. The total is
// recomputed server-side from the submitted lines; payment stays pending.
func (s *OrderService) Create(user *domain.User, items []domain.CartItem, shipping *domain.Address, promoCode string) (*domain.Order, error) {
	now := time.Now()
	order := &domain.Order{
		ID:                domain.NewOrderID(now),
		UserID:            user.ID,
		Items:             items,
		Total:             Total(items, nil),
		ShippingAddress:   shipping,
		PromoCode:         promoCode,
		Status:            domain.OrderConfirmed,
		PaymentStatus:     domain.PaymentPending,
		CreatedAt:         now.UnixMilli(),
		EstimatedDelivery: now.Add(domain.EstimatedDeliveryWindow).UnixMilli(),
	}
	if err := s.Orders.Append(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListByUser(userID int64) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}
