package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/repos"
	"storefront/internal/services"
)

// Limits configures the per-route rate limiters. A nil Storage keeps
// counters in process memory.
type Limits struct {
	GlobalMax   int
	TokenMax    int
	TokenWindow time.Duration
	AvailMax    int
	AvailWindow time.Duration
	Storage     fiber.Storage
}

func DefaultLimits() Limits {
	return Limits{GlobalMax: 120, TokenMax: 5, TokenWindow: 10 * time.Minute, AvailMax: 15, AvailWindow: 30 * time.Second}
}

type Deps struct {
	Accounts *services.AccountService

	AuthHandler      *AuthHandler
	UserHandler      *UserHandler
	AdminHandler     *AdminHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	SearchHandler    *SearchHandler
	InventoryHandler *InventoryHandler
	OrderHandler     *OrderHandler
	ReviewHandler    *ReviewHandler

	Limits Limits
}

func NewDeps(db *sqlx.DB, cfg config.Config, products *cache.Products, limits Limits) *Deps {
	settings := services.Settings{PageSize: cfg.PageSize, OrderRetries: cfg.OrderRetries, HashCost: cfg.HashCost}
	tokens := auth.NewManager(auth.Config{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	accountSvc := services.NewAccountService(db, tokens, settings)
	catalogSvc := services.NewCatalogService(db, products, settings)
	orderSvc := services.NewOrderService(db, products, settings)
	reviewSvc := services.NewReviewService(db, settings)
	invSvc := services.NewInventoryService(repos.NewInventoryRepo(db))

	return &Deps{
		Accounts:         accountSvc,
		AuthHandler:      &AuthHandler{Accounts: accountSvc},
		UserHandler:      &UserHandler{Accounts: accountSvc},
		AdminHandler:     &AdminHandler{Accounts: accountSvc, Catalog: catalogSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		SearchHandler:    &SearchHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		ReviewHandler:    &ReviewHandler{Reviews: reviewSvc},
		Limits:           limits,
	}
}
