package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Insert writes an order row through ex, normally the placement transaction.
// A blank id or timestamp is assigned here.
func (r *OrderRepo) Insert(ctx context.Context, ex sqlx.ExecerContext, o domain.Order) (domain.Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.OrderedAt == "" {
		o.OrderedAt = now()
	}
	_, err := ex.ExecContext(ctx, `
	  INSERT INTO orders(id, user_id, product_id, quantity, ordered_at)
	  VALUES(?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.ProductID, o.Quantity, o.OrderedAt)
	if err != nil {
		return domain.Order{}, classify(err, domain.ErrNotFound)
	}
	return o, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.GetContext(ctx, &o, `
		SELECT id, user_id, product_id, quantity, ordered_at
		FROM orders
		WHERE id = ?
	`, id)
	return o, classify(err, domain.ErrOrderNotFound)
}

// List returns orders newest first. An empty userID lists every order.
func (r *OrderRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.Order, int, error) {
	where := `1=1`
	args := []any{}
	if userID != "" {
		where = `user_id = ?`
		args = append(args, userID)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM orders WHERE `+where, args...); err != nil {
		return nil, 0, err
	}
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, user_id, product_id, quantity, ordered_at
		FROM orders
		WHERE `+where+`
		ORDER BY ordered_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	return out, total, err
}

// CountForProduct sums ordered units for a product.
func (r *OrderRepo) CountForProduct(ctx context.Context, productID string) (orders int, units int, err error) {
	var row struct {
		Orders int `db:"orders"`
		Units  int `db:"units"`
	}
	err = r.db.GetContext(ctx, &row, `
		SELECT COUNT(*) AS orders, COALESCE(SUM(quantity), 0) AS units
		FROM orders
		WHERE product_id = ?
	`, productID)
	return row.Orders, row.Units, err
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, domain.ErrOrderNotFound)
}
