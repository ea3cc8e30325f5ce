package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ReviewHandler struct {
	Reviews *services.ReviewService
}

type reviewRequest struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// GET /api/reviews?product=
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	pid := strings.TrimSpace(c.Query("product"))
	if pid != "" {
		if _, ok := validate.ID(pid); !ok {
			return domain.Invalid("product", "malformed")
		}
	}
	p, err := h.Reviews.List(c.UserContext(), pid, page(c))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

// GET /api/reviews/:id
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	rv, err := h.Reviews.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(rv)
}

// POST /api/reviews always records the caller as the author.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return domain.Invalid("product_id", "required")
	}
	rv, err := h.Reviews.Create(c.UserContext(), viewer(c), pid, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	applog.Audit(c, "review.create", map[string]any{"review": rv.ID, "product": pid})
	return c.Status(fiber.StatusCreated).JSON(rv)
}

// PUT /api/reviews/:id
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rv, err := h.Reviews.Update(c.UserContext(), viewer(c), id, req.Rating, req.Comment)
	if err != nil {
		return err
	}
	applog.Audit(c, "review.update", map[string]any{"review": id})
	return c.JSON(rv)
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Reviews.Delete(c.UserContext(), viewer(c), id); err != nil {
		return err
	}
	applog.Audit(c, "review.delete", map[string]any{"review": id})
	return c.SendStatus(fiber.StatusNoContent)
}
