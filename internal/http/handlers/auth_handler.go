package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
)

type AuthHandler struct {
	Accounts *services.AccountService
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// POST /api/token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, u, err := h.Accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Security(c, "auth.login.fail", map[string]any{"username": req.Username})
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "invalid username or password")
		}
		return err
	}
	c.Locals(log.UserIDKey, u.ID)
	log.Audit(c, "auth.login", map[string]any{"role": u.Role})
	return c.JSON(pair)
}

// POST /api/token/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.Accounts.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Security(c, "auth.refresh.fail", map[string]any{"error": err.Error()})
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "invalid or expired refresh token")
		}
		return err
	}
	return c.JSON(pair)
}
