package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Inv   *repos.InventoryRepo
	Cache *cache.Products
	cfg   Settings
}

func NewCatalogService(db *sqlx.DB, c *cache.Products, cfg Settings) *CatalogService {
	return &CatalogService{
		Cats:  repos.NewCategoryRepo(db),
		Prods: repos.NewProductRepo(db),
		Inv:   repos.NewInventoryRepo(db),
		Cache: c,
		cfg:   cfg.withDefaults(),
	}
}

// ProductInput is the editable part of a product.
type ProductInput struct {
	CategoryID    string          `json:"category_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
}

func (in ProductInput) product() (domain.Product, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.Product{}, domain.Invalid("name", "required, at most 100 characters")
	}
	cat := strings.TrimSpace(in.CategoryID)
	if cat == "" {
		return domain.Product{}, domain.Invalid("category_id", "required")
	}
	if !validate.Price(in.Price) {
		return domain.Product{}, domain.Invalid("price", "must be non-negative with at most 2 decimal places")
	}
	img, ok := validate.ImageURL(in.ImageURL)
	if !ok {
		return domain.Product{}, domain.Invalid("image_url", "must be an absolute http(s) URL")
	}
	if in.StockQuantity < 0 {
		return domain.Product{}, domain.Invalid("stock_quantity", "must not be negative")
	}
	return domain.Product{
		CategoryID:    cat,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		ImageURL:      img,
		StockQuantity: in.StockQuantity,
	}, nil
}

// ---- categories

func (s *CatalogService) ListCategories(ctx context.Context, page int) (domain.Page[domain.Category], error) {
	limit, offset := window(page, s.cfg.PageSize)
	items, total, err := s.Cats.List(ctx, limit, offset)
	if err != nil {
		return domain.Page[domain.Category]{}, err
	}
	return pageOf(items, total, page, s.cfg.PageSize), nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	return s.Cats.Get(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	name, ok := validate.Name(name)
	if !ok {
		return domain.Category{}, domain.Invalid("name", "required, at most 100 characters")
	}
	return s.Cats.Create(ctx, name)
}

func (s *CatalogService) RenameCategory(ctx context.Context, id, name string) (domain.Category, error) {
	name, ok := validate.Name(name)
	if !ok {
		return domain.Category{}, domain.Invalid("name", "required, at most 100 characters")
	}
	if err := s.Cats.Rename(ctx, id, name); err != nil {
		return domain.Category{}, err
	}
	return s.Cats.Get(ctx, id)
}

// DeleteCategory is irreversible: every product in the category goes with
// it, along with their orders and reviews. It returns how many products
// were removed.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (int, error) {
	removed, err := s.Cats.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	s.Cache.Invalidate(removed...)
	return len(removed), nil
}

// ---- products

// ListProducts reads straight from the database; stock shown here may be
// stale by the time an order is placed.
func (s *CatalogService) ListProducts(ctx context.Context, f repos.ProductFilter, page int) (domain.Page[domain.Product], error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return domain.Page[domain.Product]{}, domain.Invalid("min_price", "greater than max_price")
	}
	limit, offset := window(page, s.cfg.PageSize)
	items, total, err := s.Prods.List(ctx, f, limit, offset)
	if err != nil {
		return domain.Page[domain.Product]{}, err
	}
	return pageOf(items, total, page, s.cfg.PageSize), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, _, err := s.Cache.Get(ctx, id, s.Prods.Get)
	return p, err
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (domain.Product, error) {
	p, err := in.product()
	if err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Create(ctx, p)
}

// UpdateProduct replaces every editable field. Stock set here bypasses
// order placement but can never go below zero.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (domain.Product, error) {
	p, err := in.product()
	if err != nil {
		return domain.Product{}, err
	}
	p.ID = id
	if err := s.Prods.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.Cache.Invalidate(id)
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Prods.Delete(ctx, id); err != nil {
		return err
	}
	s.Cache.Invalidate(id)
	return nil
}

// Restock adds units to a product. Staff only.
func (s *CatalogService) Restock(ctx context.Context, v domain.Viewer, id string, by int) (int, error) {
	if !v.IsStaff() {
		return 0, domain.ErrForbidden
	}
	if by <= 0 {
		return 0, domain.Invalid("quantity", "must be a positive integer")
	}
	qty, err := s.Inv.Restock(ctx, id, by)
	if err != nil {
		return 0, err
	}
	s.Cache.Invalidate(id)
	return qty, nil
}
