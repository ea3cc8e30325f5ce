package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

// InventoryRepo owns every write to products.stock_quantity outside of
// plain product edits.
type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Qty returns current stock for a product.
func (r *InventoryRepo) Qty(ctx context.Context, productID string) (int, error) {
	var qty int
	err := r.db.GetContext(ctx, &qty, `SELECT stock_quantity FROM products WHERE id = ?`, productID)
	if err != nil {
		return 0, classify(err, domain.ErrProductNotFound)
	}
	return qty, nil
}

// Decrement subtracts "by" units only if enough stock exists. It reports
// false, with no change, when the guard rejects the update.
func (r *InventoryRepo) Decrement(ctx context.Context, ex sqlx.ExecerContext, productID string, by int) (bool, error) {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?
		WHERE id = ? AND stock_quantity >= ?
	`, by, productID, by)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Restock adds "by" units and returns the new quantity.
func (r *InventoryRepo) Restock(ctx context.Context, productID string, by int) (int, error) {
	var qty int
	err := WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE products SET stock_quantity = stock_quantity + ? WHERE id = ?`, by, productID)
		if err != nil {
			return err
		}
		if err := mustAffect(res, domain.ErrProductNotFound); err != nil {
			return err
		}
		return tx.GetContext(ctx, &qty, `SELECT stock_quantity FROM products WHERE id = ?`, productID)
	})
	return qty, err
}
