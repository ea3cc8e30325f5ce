package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/log"
	"storefront/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

type categoryRequest struct {
	Name string `json:"name"`
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	p, err := h.Catalog.ListCategories(c.UserContext(), page(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/categories/:id
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	cat, err := h.Catalog.GetCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(cat)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	log.Audit(c, "category.create", map[string]any{"category": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cat, err := h.Catalog.RenameCategory(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	log.Audit(c, "category.rename", map[string]any{"category": id})
	return c.JSON(cat)
}

// DELETE /api/categories/:id is irreversible: the category's products, and
// their orders and reviews, are deleted with it.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	n, err := h.Catalog.DeleteCategory(c.UserContext(), id)
	if err != nil {
		return err
	}
	log.Audit(c, "category.delete", map[string]any{"category": id, "products_removed": n})
	return c.JSON(fiber.Map{"deleted": id, "products_removed": n})
}
