package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shopease/internal/config"
	"shopease/internal/metrics"
	"shopease/internal/repos"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID         = "rzp_test_key"
	testKeySecret     = "test_key_secret"
	testWebhookSecret = "test_webhook_secret"
)

// newTestApp builds the API surface the way main does, minus rate limiting.
// The gateway is nil, so intent creation fails closed; the verify and
// webhook paths need no gateway at all.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		KeyID:         testKeyID,
		KeySecret:     testKeySecret,
		WebhookSecret: testWebhookSecret,
	}
	deps := NewDeps(db, cfg, nil, metrics.NewPaymentMetricsForTesting())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := deps.Auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("uid", u.ID)
			}
		}
		return c.Next()
	})

	api := app.Group("/api")
	api.Post("/signup", deps.AuthHandler.Signup)
	api.Post("/signin", deps.AuthHandler.Signin)
	api.Post("/signout", deps.AuthHandler.Signout)
	api.Get("/account", deps.AuthHandler.Account)

	api.Get("/cart", deps.CartHandler.List)
	api.Post("/cart/add", deps.CartHandler.Add)
	api.Post("/cart/update", deps.CartHandler.Update)
	api.Post("/cart/remove", deps.CartHandler.Remove)
	api.Post("/cart/clear", deps.CartHandler.Clear)

	api.Get("/wishlist", deps.WishlistHandler.List)
	api.Post("/wishlist/add", deps.WishlistHandler.Add)
	api.Post("/wishlist/remove", deps.WishlistHandler.Remove)

	api.Post("/promo/validate", deps.PromoHandler.Validate)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)

	api.Get("/orders", RequireUser(deps.Auth), deps.OrderHandler.List)

	api.Get("/payment/key", deps.PaymentHandler.Key)
	api.Post("/payment/create-order", deps.PaymentHandler.CreateIntent)
	api.Post("/payment/webhook", deps.PaymentHandler.Webhook)
	api.Post("/payment/verify", deps.PaymentHandler.Verify)

	admin := api.Group("/admin", RequireAdmin(deps.Auth))
	admin.Get("/stats", deps.AdminHandler.Stats)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func signin(t *testing.T, app *fiber.App, email, password string) []*http.Cookie {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/signin", fiber.Map{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	resp.Body.Close()
	return cookies
}

func hmacHex(secret string, msg []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(msg)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentKeyDoesNotLeakSecret(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/payment/key", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(raw), testKeyID)
	assert.NotContains(t, string(raw), testKeySecret)
}

func TestCreateIntentFailsClosedWithoutGateway(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payment/create-order", fiber.Map{"amount": 10000}, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateIntentRequiresAmount(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payment/create-order", fiber.Map{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	app := newTestApp(t)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"id":"pay_1","order_id":"order_1"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-razorpay-signature", "not-a-signature")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestWebhookAcceptsValidSignature(t *testing.T) {
	app := newTestApp(t)

	body := []byte(`{"event":"payment.captured","payload":{"payment":{"id":"pay_1","order_id":"order_1"}}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-razorpay-signature", hmacHex(testWebhookSecret, body))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestVerifyMissingFields(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payment/verify", fiber.Map{
		"razorpay_order_id": "order_1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/payment/verify", fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "deadbeef",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestVerifyFinalizesOrderForSignedInUser(t *testing.T) {
	app := newTestApp(t)
	cookies := signin(t, app, "user@example.com", "password")

	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", fiber.Map{
		"id": 1, "title": "Wireless Headphones", "price": 2500, "qty": 4,
	}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	sig := hmacHex(testKeySecret, []byte("order_e2e|pay_e2e"))
	resp = doJSON(t, app, http.MethodPost, "/api/payment/verify", fiber.Map{
		"razorpay_order_id":   "order_e2e",
		"razorpay_payment_id": "pay_e2e",
		"razorpay_signature":  sig,
	}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, true, out["ok"])
	orderID, _ := out["orderId"].(string)
	assert.Contains(t, orderID, "ORD-")

	// The cart is empty after finalization.
	resp = doJSON(t, app, http.MethodGet, "/api/cart", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.JSONEq(t, "[]", string(raw))

	// And visible in the user's order history.
	resp = doJSON(t, app, http.MethodGet, "/api/orders", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0]["id"])
	assert.Equal(t, float64(10000), orders[0]["totalAmount"])
}

func TestPromoValidate(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/promo/validate", fiber.Map{"code": "save10"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Equal(t, "SAVE10", out["code"])
	assert.Equal(t, "percent", out["type"])

	resp = doJSON(t, app, http.MethodPost, "/api/promo/validate", fiber.Map{"code": "NOPE"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestGuestCartRoundTrip(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", fiber.Map{
		"id": "42", "title": "Mug", "price": 49900, "qty": 1,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/cart", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	require.Len(t, items, 1)
	assert.Equal(t, "42", items[0]["id"])

	resp = doJSON(t, app, http.MethodPost, "/api/cart/update", fiber.Map{"id": "42", "qty": 3}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	assert.Equal(t, float64(3), items[0]["qty"])

	resp = doJSON(t, app, http.MethodPost, "/api/cart/update", fiber.Map{"id": "missing", "qty": 3}, cookies)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSigninMergesGuestCart(t *testing.T) {
	app := newTestApp(t)

	// Build a guest cart first.
	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", fiber.Map{
		"id": "A", "title": "A", "price": 100, "qty": 2,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/signin", fiber.Map{
		"email": "user@example.com", "password": "password",
	}, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/cart", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0]["id"])
	assert.Equal(t, float64(2), items[0]["qty"])
}

func TestSigninRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/signin", fiber.Map{
		"email": "user@example.com", "password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestSignupConflict(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/signup", fiber.Map{
		"email": "user@example.com", "password": "whatever1",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestAccountRequiresSession(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/account", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	cookies := signin(t, app, "user@example.com", "password")
	resp = doJSON(t, app, http.MethodGet, "/api/account", nil, cookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	user, _ := out["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "user@example.com", user["email"])
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	app := newTestApp(t)

	// Anonymous.
	resp := doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Regular user.
	userCookies := signin(t, app, "user@example.com", "password")
	resp = doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, userCookies)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Admin.
	adminCookies := signin(t, app, "admin@example.com", "admin123")
	resp = doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, adminCookies)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeBody(t, resp)
	assert.Contains(t, out, "totalOrders")
	assert.Contains(t, out, "totalUsers")
}

func TestSigninRateLimit(t *testing.T) {
	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deps := NewDeps(db, config.Config{}, nil, metrics.NewPaymentMetricsForTesting())

	app := fiber.New()
	app.Post("/api/signin", limiter.New(limiter.Config{
		Max:        2,
		Expiration: time.Minute,
	}), deps.AuthHandler.Signin)

	body := fiber.Map{"email": "user@example.com", "password": "wrong-password"}
	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/signin", body, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodPost, "/api/signin", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}

func TestProductsList(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/products", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	assert.NotEmpty(t, items)

	resp = doJSON(t, app, http.MethodGet, "/api/products/999999", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
