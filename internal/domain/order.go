package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	OrderConfirmed = "confirmed"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// EstimatedDeliveryWindow is added to an order's creation time to produce
// its estimated delivery date.
const EstimatedDeliveryWindow = 5 * 24 * time.Hour

// Order is the durable record produced by reconciliation (or by the direct
// order-create endpoint for non-gateway flows). Line items are an immutable
// snapshot; only Status may change afterwards, via admin updates.
type Order struct {
	ID                string     `db:"id" json:"id"`
	UserID            int64      `db:"user_id" json:"userId"`
	ItemsJSON         string     `db:"items_json" json:"-"`
	Items             []CartItem `db:"-" json:"items"`
	Total             int64      `db:"total" json:"totalAmount"` // paise
	ShippingJSON      string     `db:"shipping_json" json:"-"`
	ShippingAddress   *Address   `db:"-" json:"shippingAddress"`
	PromoCode         string     `db:"promo_code" json:"promoCode,omitempty"`
	Status            string     `db:"status" json:"status"`
	PaymentStatus     string     `db:"payment_status" json:"paymentStatus"`
	GatewayOrderID    string     `db:"gateway_order_id" json:"paymentProviderOrderId,omitempty"`
	GatewayPaymentID  string     `db:"gateway_payment_id" json:"paymentProviderPaymentId,omitempty"`
	CreatedAt         int64      `db:"created_at" json:"createdAt"` // unix millis
	EstimatedDelivery int64      `db:"estimated_delivery" json:"estimatedDelivery"`
}

// NewOrderID mints the human-facing order identifier.
func NewOrderID(now time.Time) string {
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10)
}

// EncodeItems / DecodeItems bridge the line-item snapshot to its stored form.
func (o *Order) EncodeItems() error {
	b, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}
	o.ItemsJSON = string(b)
	if o.ShippingAddress != nil {
		sb, err := json.Marshal(o.ShippingAddress)
		if err != nil {
			return err
		}
		o.ShippingJSON = string(sb)
	}
	return nil
}

func (o *Order) DecodeItems() error {
	if o.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(o.ItemsJSON), &o.Items); err != nil {
			return err
		}
	}
	if o.ShippingJSON != "" {
		o.ShippingAddress = &Address{}
		if err := json.Unmarshal([]byte(o.ShippingJSON), o.ShippingAddress); err != nil {
			return err
		}
	}
	return nil
}

const (
	IntentCreated   = "created"
	IntentCompleted = "completed"
)

// PaymentIntent mirrors the remote gateway order for the lifetime of the
// process. It is never persisted; a restart drops all pending intents.
type PaymentIntent struct {
	ID        string          `json:"id"` // gateway order id
	Amount    int64           `json:"amount"`
	Items     []CartItem      `json:"items,omitempty"`
	Status    string          `json:"status"`
	PaymentID string          `json:"paymentId,omitempty"`
	Payment   json.RawMessage `json:"payment,omitempty"` // raw webhook payment entity
	CreatedAt int64           `json:"createdAt"`
}
