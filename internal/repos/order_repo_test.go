package repos

import (
	"testing"
	"time"

	"shopease/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserID(t *testing.T, r *UserRepo) int64 {
	t.Helper()
	u, err := r.ByEmail("user@example.com")
	require.NoError(t, err)
	return u.ID
}

func testOrder(userID int64, id, paymentID string) *domain.Order {
	now := time.Now()
	return &domain.Order{
		ID:     id,
		UserID: userID,
		Items: []domain.CartItem{
			{ProductID: "1", Title: "Headphones", Price: 299900, Qty: 1},
		},
		Total:             299900,
		Status:            domain.OrderConfirmed,
		PaymentStatus:     domain.PaymentCompleted,
		GatewayOrderID:    "order_gw1",
		GatewayPaymentID:  paymentID,
		CreatedAt:         now.UnixMilli(),
		EstimatedDelivery: now.Add(domain.EstimatedDeliveryWindow).UnixMilli(),
	}
}

func TestOrderAppendAndGet(t *testing.T) {
	db := openTestDB(t)
	r := NewOrderRepo(db)
	uid := seedUserID(t, NewUserRepo(db))

	o := testOrder(uid, "ORD-1", "pay_1")
	o.ShippingAddress = &domain.Address{City: "Mumbai", Zip: "400001"}
	require.NoError(t, r.Append(o))

	got, err := r.Get("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, int64(299900), got.Total)
	require.NotNil(t, got.ShippingAddress)
	assert.Equal(t, "Mumbai", got.ShippingAddress.City)
}

func TestOrderGatewayPaymentUnique(t *testing.T) {
	db := openTestDB(t)
	r := NewOrderRepo(db)
	uid := seedUserID(t, NewUserRepo(db))

	require.NoError(t, r.Append(testOrder(uid, "ORD-1", "pay_dup")))

	// A second order for the same gateway payment violates the guard.
	err := r.Append(testOrder(uid, "ORD-2", "pay_dup"))
	assert.Error(t, err)

	// Orders without a gateway payment id are exempt from the guard.
	require.NoError(t, r.Append(testOrder(uid, "ORD-3", "")))
	require.NoError(t, r.Append(testOrder(uid, "ORD-4", "")))
}

func TestOrderByGatewayPayment(t *testing.T) {
	db := openTestDB(t)
	r := NewOrderRepo(db)
	uid := seedUserID(t, NewUserRepo(db))

	require.NoError(t, r.Append(testOrder(uid, "ORD-1", "pay_1")))

	got, err := r.ByGatewayPayment("pay_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-1", got.ID)

	missing, err := r.ByGatewayPayment("pay_unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderUpdateStatus(t *testing.T) {
	db := openTestDB(t)
	r := NewOrderRepo(db)
	uid := seedUserID(t, NewUserRepo(db))

	require.NoError(t, r.Append(testOrder(uid, "ORD-1", "pay_1")))

	found, err := r.UpdateStatus("ORD-1", "shipped")
	require.NoError(t, err)
	assert.True(t, found)

	got, err := r.Get("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "shipped", got.Status)

	found, err = r.UpdateStatus("ORD-404", "shipped")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestOrderStats(t *testing.T) {
	db := openTestDB(t)
	r := NewOrderRepo(db)
	uid := seedUserID(t, NewUserRepo(db))

	s, err := r.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalOrders)
	assert.Equal(t, int64(0), s.TotalRevenue)

	require.NoError(t, r.Append(testOrder(uid, "ORD-1", "pay_1")))
	require.NoError(t, r.Append(testOrder(uid, "ORD-2", "pay_2")))

	s, err = r.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, int64(599800), s.TotalRevenue)
}

func TestPromoLookupIsCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	r := NewPromoRepo(db)

	p, err := r.ByCode("save10")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", p.Code)
	assert.Equal(t, int64(10), p.Discount)
	assert.Equal(t, domain.PromoPercent, p.Kind)
}
