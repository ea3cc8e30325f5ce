package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/log"
	"storefront/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// POST /api/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), in)
	if err != nil {
		return err
	}
	log.Audit(c, "product.create", map[string]any{"product": p.ID, "category": p.CategoryID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PUT /api/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in services.ProductInput
	if err := bind(c, &in); err != nil {
		return err
	}
	p, err := h.Catalog.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	log.Audit(c, "product.update", map[string]any{"product": id, "stock": p.StockQuantity})
	return c.JSON(p)
}

// DELETE /api/products/:id removes the product with its orders and reviews.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.UserContext(), id); err != nil {
		return err
	}
	log.Audit(c, "product.delete", map[string]any{"product": id})
	return c.SendStatus(fiber.StatusNoContent)
}
