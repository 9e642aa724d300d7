package handlers

import (
	"shopease/internal/config"
	"shopease/internal/gateway"
	"shopease/internal/metrics"
	"shopease/internal/repos"
	"shopease/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	PromoHandler    *PromoHandler
	ProductHandler  *ProductHandler
	ReviewHandler   *ReviewHandler
	OrderHandler    *OrderHandler
	PaymentHandler  *PaymentHandler
	UserHandler     *UserHandler
	AdminHandler    *AdminHandler

	Auth *services.AuthService
}

// NewDeps wires repositories, services and handlers. gw may be nil when no
// gateway credentials are configured; intent creation then fails closed.
func NewDeps(db *sqlx.DB, cfg config.Config, gw gateway.Gateway, m *metrics.PaymentMetrics) *Deps {
	userRepo := repos.NewUserRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	promoRepo := repos.NewPromoRepo(db)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	emailRepo := repos.NewEmailRepo(db)

	authSvc := services.NewAuthService(userRepo, cartRepo, wishRepo)
	cartSvc := services.NewCartService(cartRepo)
	wishSvc := services.NewWishlistService(wishRepo)
	promoSvc := services.NewPromoService(promoRepo)
	notifySvc := services.NewNotifyService(emailRepo)
	paySvc := services.NewPaymentService(gw, cfg.KeySecret, cfg.WebhookSecret, m)
	orderSvc := services.NewOrderService(orderRepo, cartRepo, paySvc, notifySvc, m)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wish: wishSvc},
		PromoHandler:    &PromoHandler{Promo: promoSvc},
		ProductHandler:  &ProductHandler{Products: prodRepo},
		ReviewHandler:   &ReviewHandler{Reviews: reviewRepo},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		PaymentHandler:  &PaymentHandler{Payments: paySvc, Orders: orderSvc, KeyID: cfg.KeyID},
		UserHandler:     &UserHandler{Users: userRepo},
		AdminHandler:    &AdminHandler{Orders: orderRepo, Users: userRepo, Products: prodRepo},
		Auth:            authSvc,
	}
}
