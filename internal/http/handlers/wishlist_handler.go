package handlers

import (
	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/services"

	"github.com/gofiber/fiber/v2"
)

type WishlistHandler struct {
	Wish *services.WishlistService
}

// GET /api/wishlist
func (h *WishlistHandler) List(c *fiber.Ctx) error {
	items, err := h.Wish.List(owner(c))
	if err != nil {
		applog.Error(c, "wishlist.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load wishlist")
	}
	return c.JSON(items)
}

type wishlistAddReq struct {
	ID    flexID `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Img   string `json:"img"`
}

// POST /api/wishlist/add — saving twice keeps one copy.
func (h *WishlistHandler) Add(c *fiber.Ctx) error {
	var req wishlistAddReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "id required")
	}

	items, err := h.Wish.Save(owner(c), domain.WishlistItem{
		ProductID: req.ID.String(),
		Title:     req.Title,
		Price:     req.Price,
		Img:       req.Img,
	})
	if err != nil {
		applog.Error(c, "wishlist.add.fail", err, map[string]any{"product": req.ID.String()})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update wishlist")
	}
	return c.JSON(items)
}

// POST /api/wishlist/remove
func (h *WishlistHandler) Remove(c *fiber.Ctx) error {
	var req wishlistAddReq
	if err := c.BodyParser(&req); err != nil || req.ID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "id required")
	}

	items, err := h.Wish.Unsave(owner(c), req.ID.String())
	if err != nil {
		applog.Error(c, "wishlist.remove.fail", err, map[string]any{"product": req.ID.String()})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update wishlist")
	}
	return c.JSON(items)
}
