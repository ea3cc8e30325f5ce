package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

const userCols = `id, username, email, password_hash, role, created_at`

// ByUsername matches case-insensitively, like the unique index.
func (r *UserRepo) ByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(username) = LOWER(?)`, username)
	return u, classify(err, domain.ErrUserNotFound)
}

func (r *UserRepo) ByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	return u, classify(err, domain.ErrUserNotFound)
}

// Exists checks for a user through q, which may be an open transaction.
func (r *UserRepo) Exists(ctx context.Context, q sqlx.QueryerContext, id string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n, `SELECT COUNT(*) FROM users WHERE id = ?`, id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, err
	}
	out := []domain.User{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+userCols+`
		FROM users
		ORDER BY LOWER(username)
		LIMIT ? OFFSET ?
	`, limit, offset)
	return out, total, err
}

// Create stores a new account. A taken username yields domain.ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = now()
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	_, err := r.db.ExecContext(ctx, `
	  INSERT INTO users(`+userCols+`)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.Hash, u.Role, u.CreatedAt)
	if err != nil {
		return domain.User{}, classify(err, domain.ErrUserNotFound)
	}
	return u, nil
}

// Update sets email and password hash. Username and role never change here.
func (r *UserRepo) Update(ctx context.Context, id, email, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET email = ?, password_hash = ? WHERE id = ?`, email, hash, id)
	if err != nil {
		return classify(err, domain.ErrUserNotFound)
	}
	return mustAffect(res, domain.ErrUserNotFound)
}

// Delete removes the account; orders and reviews cascade.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return mustAffect(res, domain.ErrUserNotFound)
}
