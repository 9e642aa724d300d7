package handlers

import (
	"strings"

	applog "shopease/internal/log"
	"shopease/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Products *repos.ProductRepo
}

// GET /api/products?search=&category=&limit=&offset=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("search")))
	category := strings.TrimSpace(c.Query("category"))

	limit := c.QueryInt("limit", 0)
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	list, err := h.Products.Search(q, category, limit, offset)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(list)
}

// GET /api/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := parseInt64(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	p, err := h.Products.Get(id)
	if err != nil {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	return c.JSON(p)
}
