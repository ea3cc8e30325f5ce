package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

const viewerKey = "viewer"

// Authenticate reads an optional bearer token. Requests without one pass
// through anonymously; a bad token is rejected outright.
func Authenticate(accounts *services.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		if h == "" {
			return c.Next()
		}
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			applog.Security(c, "auth.header.invalid", nil)
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "use: Authorization: Bearer <token>")
		}
		v, err := accounts.Authenticate(strings.TrimSpace(token))
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"error": err.Error()})
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "invalid or expired token")
		}
		c.Locals(viewerKey, v)
		c.Locals(applog.UserIDKey, v.UserID)
		return c.Next()
	}
}

// RequireUser rejects anonymous callers.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := c.Locals(viewerKey).(domain.Viewer); !ok {
			applog.Security(c, "access.denied.anonymous", nil)
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "authentication required")
		}
		return c.Next()
	}
}

// RequireStaff rejects anyone without the STAFF role.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, ok := c.Locals(viewerKey).(domain.Viewer)
		if !ok {
			applog.Security(c, "access.denied.anonymous", nil)
			return reply(c, fiber.StatusUnauthorized, "unauthorized", "authentication required")
		}
		if !v.IsStaff() {
			applog.Security(c, "access.denied.staff", map[string]any{"role": v.Role})
			return reply(c, fiber.StatusForbidden, "forbidden", "staff only")
		}
		return c.Next()
	}
}

// viewer returns the caller, or the zero Viewer for anonymous requests.
func viewer(c *fiber.Ctx) domain.Viewer {
	v, _ := c.Locals(viewerKey).(domain.Viewer)
	return v
}
