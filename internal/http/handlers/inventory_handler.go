package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/products/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(avail)
}
