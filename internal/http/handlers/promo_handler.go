package handlers

import (
	"errors"

	applog "shopease/internal/log"
	"shopease/internal/services"
	"shopease/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PromoHandler struct {
	Promo *services.PromoService
}

type promoReq struct {
	Code string `json:"code"`
}

// POST /api/promo/validate
func (h *PromoHandler) Validate(c *fiber.Ctx) error {
	var req promoReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "code required")
	}
	code, ok := validate.PromoCode(req.Code)
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "Invalid promo code")
	}

	p, err := h.Promo.Validate(code)
	if errors.Is(err, services.ErrNotFound) {
		return jsonErr(c, fiber.StatusNotFound, "Invalid promo code")
	}
	if err != nil {
		applog.Error(c, "promo.validate.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not validate code")
	}
	return c.JSON(p)
}
