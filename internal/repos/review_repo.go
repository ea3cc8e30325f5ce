package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

const reviewCols = `id, product_id, user_id, rating, comment, created_at`

func (r *ReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	rv.ID = uuid.NewString()
	rv.CreatedAt = now()
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO reviews(`+reviewCols+`)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt)
	if err != nil {
		return domain.Review{}, classify(err, domain.ErrNotFound)
	}
	return rv, nil
}

func (r *ReviewRepo) Get(ctx context.Context, id string) (domain.Review, error) {
	var rv domain.Review
	err := r.db.GetContext(ctx, &rv, `SELECT `+reviewCols+` FROM reviews WHERE id = ?`, id)
	return rv, classify(err, domain.ErrReviewNotFound)
}

// List returns reviews newest first, optionally for one product.
func (r *ReviewRepo) List(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int, error) {
	where := `1=1`
	args := []any{}
	if productID != "" {
		where = `product_id = ?`
		args = append(args, productID)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE `+where, args...); err != nil {
		return nil, 0, err
	}
	out := []domain.Review{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+reviewCols+`
		FROM reviews
		WHERE `+where+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	return out, total, err
}

func (r *ReviewRepo) Update(ctx context.Context, id string, rating int, comment string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET rating = ?, comment = ? WHERE id = ?`, rating, comment, id)
	if err != nil {
		return classify(err, domain.ErrReviewNotFound)
	}
	return mustAffect(res, domain.ErrReviewNotFound)
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, domain.ErrReviewNotFound)
}
