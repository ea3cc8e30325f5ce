package repos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	Query      string // matched against product and category names
}

const productCols = `p.id, p.category_id, p.name, p.description, p.price, p.image_url, p.stock_quantity, p.created_at`

func (f ProductFilter) where() (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if f.CategoryID != "" {
		where = append(where, "p.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.MinPrice != nil {
		where = append(where, "CAST(p.price AS REAL) >= CAST(? AS REAL)")
		args = append(args, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		where = append(where, "CAST(p.price AS REAL) <= CAST(? AS REAL)")
		args = append(args, f.MaxPrice.String())
	}
	if f.InStock != nil {
		if *f.InStock {
			where = append(where, "p.stock_quantity > 0")
		} else {
			where = append(where, "p.stock_quantity = 0")
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		where = append(where, "(LOWER(p.name) LIKE ? ESCAPE '\\' OR LOWER(c.name) LIKE ? ESCAPE '\\')")
		like := "%" + escapeLike(q) + "%"
		args = append(args, like, like)
	}
	return strings.Join(where, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter, limit, offset int) ([]domain.Product, int, error) {
	where, args := f.where()
	from := ` FROM products p JOIN categories c ON c.id = p.category_id WHERE ` + where

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+from, args...); err != nil {
		return nil, 0, err
	}

	out := []domain.Product{}
	q := `SELECT ` + productCols + from + ` ORDER BY p.created_at DESC, p.rowid DESC LIMIT ? OFFSET ?`
	err := r.db.SelectContext(ctx, &out, q, append(args, limit, offset)...)
	return out, total, err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	return r.Lookup(ctx, r.db, id)
}

// Lookup reads a product through q, which may be the pool or an open transaction.
func (r *ProductRepo) Lookup(ctx context.Context, q sqlx.QueryerContext, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, q, &p, `SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	return p, classify(err, domain.ErrProductNotFound)
}

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO products(id, category_id, name, description, price, image_url, stock_quantity, created_at)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.StockQuantity, p.CreatedAt)
	if err != nil {
		return domain.Product{}, classify(err, domain.ErrCategoryNotFound)
	}
	return p, nil
}

// Update rewrites every editable column. created_at is never touched.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.db.ExecContext(ctx, `
	  UPDATE products
	  SET category_id = ?, name = ?, description = ?, price = ?, image_url = ?, stock_quantity = ?
	  WHERE id = ?
	`, p.CategoryID, p.Name, p.Description, p.Price, p.ImageURL, p.StockQuantity, p.ID)
	if err != nil {
		return classify(err, domain.ErrCategoryNotFound)
	}
	return mustAffect(res, domain.ErrProductNotFound)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, domain.ErrProductNotFound)
}
