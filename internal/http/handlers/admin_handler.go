package handlers

import (
	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders   *repos.OrderRepo
	Users    *repos.UserRepo
	Products *repos.ProductRepo
}

// GET /api/admin/stats
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	s, err := h.Orders.Stats()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load stats")
	}
	users, err := h.Users.CountUsers()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load stats")
	}

	var avg int64
	if s.TotalOrders > 0 {
		avg = s.TotalRevenue / int64(s.TotalOrders)
	}
	return c.JSON(fiber.Map{
		"totalOrders":   s.TotalOrders,
		"totalRevenue":  s.TotalRevenue,
		"totalUsers":    users,
		"avgOrderValue": avg,
	})
}

// GET /api/admin/orders
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ListAll()
	if err != nil {
		applog.Error(c, "admin.orders.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(orders)
}

type orderStatusReq struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// POST /api/admin/order/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var req orderStatusReq
	if err := c.BodyParser(&req); err != nil || req.OrderID == "" || req.Status == "" {
		return jsonErr(c, fiber.StatusBadRequest, "orderId and status required")
	}

	found, err := h.Orders.UpdateStatus(req.OrderID, req.Status)
	if err != nil {
		applog.Error(c, "admin.order.status.fail", err, map[string]any{"order_id": req.OrderID})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update status")
	}
	applog.Audit(c, "admin.order.status", map[string]any{"order_id": req.OrderID, "status": req.Status})
	return c.JSON(fiber.Map{"ok": found})
}

type productReq struct {
	Title     *string `json:"title"`
	Price     *int64  `json:"price"`
	Img       *string `json:"img"`
	Category  *string `json:"category"`
	Desc      *string `json:"desc"`
	Inventory *int    `json:"inventory"`
	Popular   *bool   `json:"popular"`
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req productReq
	if err := c.BodyParser(&req); err != nil || req.Title == nil || *req.Title == "" {
		return jsonErr(c, fiber.StatusBadRequest, "title required")
	}

	p := domain.Product{Title: *req.Title, Category: "general"}
	applyProductPatch(&p, req)

	id, err := h.Products.Create(p)
	if err != nil {
		applog.Error(c, "admin.product.create.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not create product")
	}
	created, err := h.Products.Get(id)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, "could not load product")
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": id})
	return c.JSON(created)
}

// PUT /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := parseInt64(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	p, err := h.Products.Get(id)
	if err != nil {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}

	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid body")
	}
	applyProductPatch(&p, req)

	if err := h.Products.Update(p); err != nil {
		applog.Error(c, "admin.product.update.fail", err, map[string]any{"product_id": id})
		return jsonErr(c, fiber.StatusInternalServerError, "could not update product")
	}
	updated, err := h.Products.Get(id)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, "could not load product")
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	return c.JSON(updated)
}

// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := parseInt64(c.Params("id"))
	if !ok {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	found, err := h.Products.Delete(id)
	if err != nil {
		applog.Error(c, "admin.product.delete.fail", err, map[string]any{"product_id": id})
		return jsonErr(c, fiber.StatusInternalServerError, "could not delete product")
	}
	if !found {
		return jsonErr(c, fiber.StatusNotFound, "not found")
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"ok": true})
}

func applyProductPatch(p *domain.Product, req productReq) {
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Price != nil && *req.Price >= 0 {
		p.Price = *req.Price
	}
	if req.Img != nil {
		p.Img = *req.Img
	}
	if req.Category != nil && *req.Category != "" {
		p.Category = *req.Category
	}
	if req.Desc != nil {
		p.Description = *req.Desc
	}
	if req.Inventory != nil {
		if *req.Inventory < 0 {
			p.Inventory = 0
		} else {
			p.Inventory = *req.Inventory
		}
	}
	if req.Popular != nil {
		p.Popular = *req.Popular
	}
}
