package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type UserHandler struct {
	Accounts *services.AccountService
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userUpdateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/users
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.Accounts.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	applog.Audit(c, "user.register", map[string]any{"user": u.ID})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// GET /api/users/:id
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := h.Accounts.GetUser(c.UserContext(), viewer(c), id)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

// PUT /api/users/:id
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req userUpdateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	u, err := h.Accounts.UpdateUser(c.UserContext(), viewer(c), id, req.Email, req.Password)
	if err != nil {
		return err
	}
	applog.Audit(c, "user.update", map[string]any{"user": id, "password_changed": req.Password != ""})
	return c.JSON(u)
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.Accounts.DeleteUser(c.UserContext(), viewer(c), id); err != nil {
		return err
	}
	applog.Audit(c, "user.delete", map[string]any{"user": id})
	return c.SendStatus(fiber.StatusNoContent)
}
