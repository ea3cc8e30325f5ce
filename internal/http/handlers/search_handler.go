package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/products?search=&category=&min_price=&max_price=&in_stock=&page=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	f, err := productFilter(c)
	if err != nil {
		return err
	}
	p, err := h.Catalog.ListProducts(c.UserContext(), f, page(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func productFilter(c *fiber.Ctx) (repos.ProductFilter, error) {
	var f repos.ProductFilter

	if raw := c.Query("search"); strings.TrimSpace(raw) != "" {
		q, ok := validate.Q(raw)
		if !ok {
			return f, domain.Invalid("search", "letters, digits and spaces only")
		}
		f.Query = q
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return f, domain.Invalid("category", "malformed")
		}
		f.CategoryID = id
	}
	if raw := c.Query("min_price"); raw != "" {
		d, ok := validate.ParsePrice(raw)
		if !ok {
			return f, domain.Invalid("min_price", "not a price")
		}
		f.MinPrice = &d
	}
	if raw := c.Query("max_price"); raw != "" {
		d, ok := validate.ParsePrice(raw)
		if !ok {
			return f, domain.Invalid("max_price", "not a price")
		}
		f.MaxPrice = &d
	}
	in, ok := validate.Bool(c.Query("in_stock"))
	if !ok {
		return f, domain.Invalid("in_stock", "use true or false")
	}
	f.InStock = in
	return f, nil
}
