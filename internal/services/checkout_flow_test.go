package services

import (
	"context"
	"path/filepath"
	"testing"

	"shopease/internal/domain"
	"shopease/internal/metrics"
	"shopease/internal/repos"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type checkoutFixture struct {
	db       *sqlx.DB
	orders   *repos.OrderRepo
	carts    *repos.CartRepo
	emails   *repos.EmailRepo
	payments *PaymentService
	svc      *OrderService
	user     *domain.User
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := openTestDB(t)

	orders := repos.NewOrderRepo(db)
	carts := repos.NewCartRepo(db)
	emails := repos.NewEmailRepo(db)
	m := metrics.NewPaymentMetricsForTesting()
	payments := NewPaymentService(&stubGateway{}, "test_key_secret", "test_webhook_secret", m)
	notify := NewNotifyService(emails)
	svc := NewOrderService(orders, carts, payments, notify, m)

	user, err := repos.NewUserRepo(db).ByEmail("user@example.com")
	require.NoError(t, err)

	return &checkoutFixture{db: db, orders: orders, carts: carts, emails: emails, payments: payments, svc: svc, user: user}
}

func TestCheckoutFlow(t *testing.T) {
	f := newCheckoutFixture(t)
	owner := domain.UserOwner(f.user.ID)

	items := []domain.CartItem{
		{ProductID: "1", Title: "Wireless Headphones", Price: 2500, Qty: 4},
	}
	for _, it := range items {
		require.NoError(t, f.carts.Upsert(owner, it))
	}

	intent, err := f.payments.CreateIntent(context.Background(), 10000, items)
	require.NoError(t, err)
	require.Equal(t, int64(10000), intent.Amount)

	sig := signHex(f.payments.KeySecret, []byte(intent.ID+"|pay_final"))
	res, err := f.svc.Finalize(intent.ID, "pay_final", sig, f.user)
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	require.NotNil(t, res.Order)

	order, err := f.orders.Get(res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderConfirmed, order.Status)
	assert.Equal(t, domain.PaymentCompleted, order.PaymentStatus)
	assert.Equal(t, int64(10000), order.Total)
	assert.Equal(t, intent.ID, order.GatewayOrderID)
	assert.Equal(t, "pay_final", order.GatewayPaymentID)
	assert.Equal(t, items, order.Items)
	assert.Equal(t, order.CreatedAt+domain.EstimatedDeliveryWindow.Milliseconds(), order.EstimatedDelivery)

	// The cart was emptied and exactly one confirmation was queued.
	cart, err := f.carts.Items(owner)
	require.NoError(t, err)
	assert.Empty(t, cart)

	mail, err := f.emails.ListByRecipient(f.user.Email)
	require.NoError(t, err)
	require.Len(t, mail, 1)
	assert.Contains(t, mail[0].Subject, order.ID)
	assert.Contains(t, mail[0].Body, "Wireless Headphones")
	assert.Contains(t, mail[0].Body, "100.00")
}

func TestFinalizeRedeliveryIsIdempotent(t *testing.T) {
	f := newCheckoutFixture(t)

	items := []domain.CartItem{{ProductID: "2", Title: "Sneakers", Price: 19900, Qty: 1}}
	intent, err := f.payments.CreateIntent(context.Background(), 19900, items)
	require.NoError(t, err)

	sig := signHex(f.payments.KeySecret, []byte(intent.ID+"|pay_dup"))

	first, err := f.svc.Finalize(intent.ID, "pay_dup", sig, f.user)
	require.NoError(t, err)
	require.NoError(t, first.Warning)

	second, err := f.svc.Finalize(intent.ID, "pay_dup", sig, f.user)
	require.NoError(t, err)
	require.NoError(t, second.Warning)
	assert.Equal(t, first.OrderID, second.OrderID)

	all, err := f.orders.ListByUser(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mail, err := f.emails.ListByRecipient(f.user.Email)
	require.NoError(t, err)
	assert.Len(t, mail, 1)
}

func TestFinalizeGuestAcknowledgesWithoutOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	intent, err := f.payments.CreateIntent(context.Background(), 5000, nil)
	require.NoError(t, err)

	sig := signHex(f.payments.KeySecret, []byte(intent.ID+"|pay_guest"))
	res, err := f.svc.Finalize(intent.ID, "pay_guest", sig, nil)
	require.NoError(t, err)
	assert.Equal(t, intent.ID, res.OrderID)
	assert.Nil(t, res.Order)

	all, err := f.orders.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFinalizeRejectsBadSignature(t *testing.T) {
	f := newCheckoutFixture(t)

	intent, err := f.payments.CreateIntent(context.Background(), 5000, nil)
	require.NoError(t, err)

	_, err = f.svc.Finalize(intent.ID, "pay_x", "deadbeef", f.user)
	assert.ErrorIs(t, err, ErrSignatureMismatch)

	all, err := f.orders.ListAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFinalizeFallsBackToLiveCart(t *testing.T) {
	// No locally known intent (e.g. after a restart): line items come from
	// the live cart and the total is recomputed from them.
	f := newCheckoutFixture(t)
	owner := domain.UserOwner(f.user.ID)

	require.NoError(t, f.carts.Upsert(owner, domain.CartItem{ProductID: "3", Title: "Mug", Price: 49900, Qty: 2}))

	sig := signHex(f.payments.KeySecret, []byte("order_lost|pay_recov"))
	res, err := f.svc.Finalize("order_lost", "pay_recov", sig, f.user)
	require.NoError(t, err)
	require.NoError(t, res.Warning)
	require.NotNil(t, res.Order)
	assert.Equal(t, int64(99800), res.Order.Total)
	assert.Len(t, res.Order.Items, 1)
}

func TestDirectOrderCreate(t *testing.T) {
	f := newCheckoutFixture(t)

	items := []domain.CartItem{{ProductID: "9", Title: "Poster", Price: 9900, Qty: 3}}
	order, err := f.svc.Create(f.user, items, &domain.Address{City: "Pune"}, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(29700), order.Total)
	assert.Equal(t, domain.PaymentPending, order.PaymentStatus)

	got, err := f.orders.Get(order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ShippingAddress)
	assert.Equal(t, "Pune", got.ShippingAddress.City)
	assert.Equal(t, "SAVE10", got.PromoCode)
}
