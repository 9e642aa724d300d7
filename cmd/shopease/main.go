package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shopease/internal/config"
	"shopease/internal/gateway"
	"shopease/internal/http/handlers"
	applog "shopease/internal/log"
	"shopease/internal/metrics"
	"shopease/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Gateway wiring is fail-closed: without credentials no client is
	// constructed and intent creation returns 502 instead of minting
	// fake order ids.
	var gw gateway.Gateway
	if cfg.KeyID != "" && cfg.KeySecret != "" {
		gw = gateway.NewClient(cfg.GatewayURL, cfg.KeyID, cfg.KeySecret)
	} else {
		log.Printf("[warn] payment gateway credentials missing; payment endpoints disabled")
	}

	m := metrics.NewPaymentMetrics()
	deps := handlers.NewDeps(db, cfg, gw, m)

	app := fiber.New(fiber.Config{
		BodyLimit: 1 << 20, // 1 MiB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer generically; never leak internals.
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach the signed-in user to the request context.
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := deps.Auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("uid", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- API ----------
	api := app.Group("/api")

	signinLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.signin.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	})
	api.Post("/signup", deps.AuthHandler.Signup)
	api.Post("/signin", signinLimiter, deps.AuthHandler.Signin)
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

	api.Get("/reviews/:productId", deps.ReviewHandler.List)
	api.Post("/reviews/add", deps.ReviewHandler.Add)

	api.Post("/promo/validate", deps.PromoHandler.Validate)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Get)

	api.Get("/orders", handlers.RequireUser(deps.Auth), deps.OrderHandler.List)
	api.Post("/orders/create", handlers.RequireUser(deps.Auth), deps.OrderHandler.Create)

	api.Get("/payment/key", deps.PaymentHandler.Key)
	api.Post("/payment/create-order", deps.PaymentHandler.CreateIntent)
	api.Post("/payment/webhook", deps.PaymentHandler.Webhook)
	api.Post("/payment/verify", deps.PaymentHandler.Verify)

	api.Get("/user/addresses", handlers.RequireUser(deps.Auth), deps.UserHandler.Addresses)
	api.Post("/user/address/add", handlers.RequireUser(deps.Auth), deps.UserHandler.AddAddress)
	api.Post("/user/address/delete", handlers.RequireUser(deps.Auth), deps.UserHandler.DeleteAddress)
	api.Post("/user/settings", handlers.RequireUser(deps.Auth), deps.UserHandler.Settings)

	admin := api.Group("/admin", handlers.RequireAdmin(deps.Auth))
	admin.Get("/stats", deps.AdminHandler.Stats)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/order/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)

	// Health & metrics
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
