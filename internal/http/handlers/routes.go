package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
)

func (d *Deps) limiter(name string, max int, cfg limiter.Config) fiber.Handler {
	cfg.Max = max
	cfg.Storage = d.Limits.Storage
	cfg.KeyGenerator = func(c *fiber.Ctx) string { return c.IP() + "|" + name }
	cfg.LimitReached = func(c *fiber.Ctx) error {
		applog.Security(c, "rate."+name+".hit", nil)
		return reply(c, fiber.StatusTooManyRequests, "rate_limited", "rate limit exceeded, retry soon")
	}
	return limiter.New(cfg)
}

// Routes mounts the JSON API. Bearer tokens are read on every /api request;
// individual routes decide whether a caller is required.
func (d *Deps) Routes(app fiber.Router) {
	user := RequireUser()
	staff := RequireStaff()

	api := app.Group("/api", Authenticate(d.Accounts))

	// Token endpoints (throttled)
	tokenLimit := d.limiter("token", d.Limits.TokenMax, limiter.Config{Expiration: d.Limits.TokenWindow})
	api.Post("/token", tokenLimit, d.AuthHandler.Login)
	api.Post("/token/refresh", tokenLimit, d.AuthHandler.Refresh)

	// Users
	api.Post("/users", d.UserHandler.Register)
	api.Get("/users", staff, d.AdminHandler.Users)
	api.Get("/users/:id", user, d.UserHandler.Get)
	api.Put("/users/:id", user, d.UserHandler.Update)
	api.Delete("/users/:id", user, d.UserHandler.Delete)

	// Catalog
	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/categories/:id", d.CategoryHandler.Get)
	api.Post("/categories", user, d.CategoryHandler.Create)
	api.Put("/categories/:id", user, d.CategoryHandler.Rename)
	api.Delete("/categories/:id", user, d.CategoryHandler.Delete)

	availLimit := d.limiter("availability", d.Limits.AvailMax, limiter.Config{Expiration: d.Limits.AvailWindow})
	api.Get("/products", d.SearchHandler.Search)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/availability", availLimit, d.InventoryHandler.Check)
	api.Post("/products", user, d.ProductHandler.Create)
	api.Put("/products/:id", user, d.ProductHandler.Update)
	api.Delete("/products/:id", user, d.ProductHandler.Delete)
	api.Post("/products/:id/restock", staff, d.AdminHandler.Restock)

	// Orders
	api.Get("/orders", user, d.OrderHandler.History)
	api.Post("/orders", user, d.OrderHandler.Place)
	api.Get("/orders/:id", user, d.OrderHandler.View)
	api.Delete("/orders/:id", user, d.OrderHandler.Delete)

	// Reviews
	api.Get("/reviews", d.ReviewHandler.List)
	api.Get("/reviews/:id", d.ReviewHandler.Get)
	api.Post("/reviews", user, d.ReviewHandler.Create)
	api.Put("/reviews/:id", user, d.ReviewHandler.Update)
	api.Delete("/reviews/:id", user, d.ReviewHandler.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
