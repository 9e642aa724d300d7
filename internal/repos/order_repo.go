package repos

import (
	"database/sql"

	"shopease/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Append persists a new order with its immutable line-item snapshot.
func (r *OrderRepo) Append(o *domain.Order) error {
	if err := o.EncodeItems(); err != nil {
		return err
	}
	_, err := r.db.Exec(`
	  INSERT INTO orders
	    (id, user_id, items_json, total, shipping_json, promo_code, status,
	     payment_status, gateway_order_id, gateway_payment_id, created_at, estimated_delivery)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.UserID, o.ItemsJSON, o.Total, o.ShippingJSON, o.PromoCode, o.Status,
		o.PaymentStatus, o.GatewayOrderID, o.GatewayPaymentID, o.CreatedAt, o.EstimatedDelivery)
	return err
}

const orderCols = `id, user_id, items_json, total, shipping_json, promo_code, status,
	payment_status, gateway_order_id, gateway_payment_id, created_at, estimated_delivery`

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id=?`, id); err != nil {
		return domain.Order{}, err
	}
	return o, o.DecodeItems()
}

// ByGatewayPayment is the idempotency probe: a redelivered callback for an
// already-settled payment maps back to its existing order.
func (r *OrderRepo) ByGatewayPayment(paymentID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE gateway_payment_id=?`, paymentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := o.DecodeItems(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByUser(userID int64) ([]domain.Order, error) {
	return r.list(`SELECT `+orderCols+` FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
}

func (r *OrderRepo) ListAll() ([]domain.Order, error) {
	return r.list(`SELECT ` + orderCols + ` FROM orders ORDER BY created_at DESC`)
}

func (r *OrderRepo) list(query string, args ...any) ([]domain.Order, error) {
	var rows []domain.Order
	if err := r.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, o := range rows {
		if err := o.DecodeItems(); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(id, status string) (bool, error) {
	res, err := r.db.Exec(`UPDATE orders SET status=? WHERE id=?`, status, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type Stats struct {
	TotalOrders  int   `db:"total_orders" json:"totalOrders"`
	TotalRevenue int64 `db:"total_revenue" json:"totalRevenue"`
}

func (r *OrderRepo) Stats() (Stats, error) {
	var s Stats
	err := r.db.Get(&s, `SELECT COUNT(*) AS total_orders, COALESCE(SUM(total),0) AS total_revenue FROM orders`)
	return s, err
}
