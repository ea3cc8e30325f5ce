package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/http/handlers"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Redis backs the product cache and the rate limiter counters when configured.
	limits := handlers.DefaultLimits()
	var store fiber.Storage
	if cfg.RedisURL != "" {
		if store, err = openRedis(cfg.RedisURL); err != nil {
			log.Fatal(err)
		}
		limits.Storage = store
		log.Printf("[cache] redis enabled (ttl %s)", cfg.CacheTTL)
	}
	products := cache.NewProducts(store, "storefront:product:", cfg.CacheTTL)

	deps := handlers.NewDeps(db, cfg, products, limits)
	app := handlers.NewApp(deps)

	go func() {
		log.Printf("[http] listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("[http] server error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"storefront": func(ctx context.Context) error {
				log.Println("[shutdown] draining http")
				if err := app.ShutdownWithContext(ctx); err != nil {
					log.Printf("[shutdown] http: %v", err)
				}
				// Storage closes after in-flight requests are done with it.
				if err := products.Close(); err != nil {
					log.Printf("[shutdown] cache: %v", err)
				}
				return db.Close()
			},
		},
	)

	exitCode := <-wait
	log.Printf("[shutdown] exited with code %d", exitCode)
	os.Exit(exitCode)
}

// openRedis turns the driver's connection panic into an error.
func openRedis(url string) (store fiber.Storage, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("redis %s: %v", url, r)
		}
	}()
	return redis.New(redis.Config{URL: url}), nil
}
