package handlers

import (
	"errors"

	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/cart
func (h *CartHandler) List(c *fiber.Ctx) error {
	items, err := h.Cart.Items(owner(c))
	if err != nil {
		applog.Error(c, "cart.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(items)
}

type cartAddReq struct {
	ID    flexID `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"` // paise
	Qty   int    `json:"qty"`
}

// POST /api/cart/add
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "id required")
	}
	if req.Price < 0 {
		req.Price = 0
	}

	items, err := h.Cart.Add(owner(c), domain.CartItem{
		ProductID: req.ID.String(),
		Title:     req.Title,
		Price:     req.Price,
		Qty:       req.Qty,
	})
	if err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": req.ID.String()})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.JSON(items)
}

type cartUpdateReq struct {
	ID  flexID `json:"id"`
	Qty int    `json:"qty"`
}

// POST /api/cart/update — qty <= 0 removes the line.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var req cartUpdateReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "id required")
	}

	items, err := h.Cart.UpdateQty(owner(c), req.ID.String(), req.Qty)
	if errors.Is(err, services.ErrNotFound) {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	if err != nil {
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": req.ID.String()})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.JSON(items)
}

// POST /api/cart/remove
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	var req cartUpdateReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "id required")
	}

	items, err := h.Cart.Remove(owner(c), req.ID.String())
	if err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": req.ID.String()})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update cart")
	}
	return c.JSON(items)
}

// POST /api/cart/clear
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(owner(c)); err != nil {
		applog.Error(c, "cart.clear.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not clear cart")
	}
	return c.JSON([]domain.CartItem{})
}
