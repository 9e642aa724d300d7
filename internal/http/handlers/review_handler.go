package handlers

import (
	"time"

	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/repos"
	"shopease/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Reviews *repos.ReviewRepo
}

// GET /api/reviews/:productId
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	productID := c.Params("productId")
	list, err := h.Reviews.ListByProduct(productID)
	if err != nil {
		applog.Error(c, "reviews.list.fail", err, map[string]any{"product": productID})
		return jsonErr(c, fiber.StatusInternalServerError, "could not load reviews")
	}
	return c.JSON(list)
}

type reviewAddReq struct {
	ProductID flexID `json:"productId"`
	Title     string `json:"title"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// POST /api/reviews/add (signed-in only)
func (h *ReviewHandler) Add(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}

	var req reviewAddReq
	if err := c.BodyParser(&req); err != nil || req.ProductID == "" {
		return jsonErr(c, fiber.StatusBadRequest, "productId required")
	}

	rev := domain.Review{
		ProductID: req.ProductID.String(),
		UserID:    u.ID,
		UserName:  u.Name,
		Rating:    validate.Rating(req.Rating),
		Title:     req.Title,
		Comment:   req.Comment,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := h.Reviews.Add(rev); err != nil {
		applog.Error(c, "reviews.add.fail", err, map[string]any{"product": rev.ProductID})
		return jsonErr(c, fiber.StatusInternalServerError, "could not save review")
	}

	list, err := h.Reviews.ListByProduct(rev.ProductID)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, "could not load reviews")
	}
	return c.JSON(list)
}
