package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context, limit, offset int) ([]domain.Category, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM categories`); err != nil {
		return nil, 0, err
	}
	out := []domain.Category{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT id, name, created_at
	  FROM categories
	  ORDER BY name
	  LIMIT ? OFFSET ?
	`, limit, offset)
	return out, total, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, `SELECT id, name, created_at FROM categories WHERE id = ?`, id)
	return c, classify(err, domain.ErrCategoryNotFound)
}

func (r *CategoryRepo) Create(ctx context.Context, name string) (domain.Category, error) {
	c := domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: now()}
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories(id, name, created_at) VALUES(?, ?, ?)`,
		c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return domain.Category{}, classify(err, domain.ErrCategoryNotFound)
	}
	return c, nil
}

func (r *CategoryRepo) Rename(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return classify(err, domain.ErrCategoryNotFound)
	}
	return mustAffect(res, domain.ErrCategoryNotFound)
}

// Delete removes the category and, through ON DELETE CASCADE, every product
// in it along with their orders and reviews. It returns the ids of the
// products that were removed.
func (r *CategoryRepo) Delete(ctx context.Context, id string) ([]string, error) {
	var removed []string
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &removed, `SELECT id FROM products WHERE category_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return mustAffect(res, domain.ErrCategoryNotFound)
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}
