package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// AdminHandler serves the staff-only endpoints.
type AdminHandler struct {
	Accounts *services.AccountService
	Catalog  *services.CatalogService
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

// GET /api/users
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	p, err := h.Accounts.ListUsers(c.UserContext(), viewer(c), page(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /api/products/:id/restock
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req restockRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	qty, err := h.Catalog.Restock(c.UserContext(), viewer(c), id, req.Quantity)
	if err != nil {
		applog.Error(c, "admin.restock.fail", err, map[string]any{"product": id, "by": req.Quantity})
		return err
	}
	applog.Audit(c, "admin.restock", map[string]any{"product": id, "by": req.Quantity, "qty": qty})
	return c.JSON(fiber.Map{"product_id": id, "stock_quantity": qty})
}
