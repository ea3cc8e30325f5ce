package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// MaxBody caps request bodies.
const MaxBody = 1 << 20 // 1 MiB

// NewApp builds the Fiber app with the full middleware chain and routes.
func NewApp(d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
		BodyLimit:             MaxBody,
		ErrorHandler:          ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if d.Limits.GlobalMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        d.Limits.GlobalMax,
			Expiration: time.Minute,
			Storage:    d.Limits.Storage,
			Next: func(c *fiber.Ctx) bool {
				return c.Path() == "/healthz"
			},
			LimitReached: func(c *fiber.Ctx) error {
				return reply(c, fiber.StatusTooManyRequests, "rate_limited", "rate limit exceeded, retry soon")
			},
		}))
	}

	d.Routes(app)

	app.Use(func(c *fiber.Ctx) error {
		return reply(c, fiber.StatusNotFound, "not_found", "no such route")
	})
	return app
}
