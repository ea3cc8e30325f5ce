package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/validate"
)

// bind decodes a JSON body into dst.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Invalid("body", "malformed JSON")
	}
	return nil
}

func page(c *fiber.Ctx) int { return validate.Page(c.Query("page")) }

// idParam reads and checks the :id route parameter.
func idParam(c *fiber.Ctx) (string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return "", domain.Invalid("id", "malformed")
	}
	return id, nil
}
