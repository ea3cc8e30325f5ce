package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

var ErrBadCreds = fmt.Errorf("invalid username or password: %w", domain.ErrUnauthorized)

// AccountService covers registration, login and account management.
type AccountService struct {
	Users  *repos.UserRepo
	Tokens *auth.Manager
	cfg    Settings
}

func NewAccountService(db *sqlx.DB, tokens *auth.Manager, cfg Settings) *AccountService {
	return &AccountService{Users: repos.NewUserRepo(db), Tokens: tokens, cfg: cfg.withDefaults()}
}

func (s *AccountService) hash(password string) (string, error) {
	if !validate.Password(password) {
		return "", domain.Invalid("password", "8 to 72 characters with a letter and a digit")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func cleanEmail(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", nil
	}
	e, ok := validate.Email(email)
	if !ok {
		return "", domain.Invalid("email", "not a valid address")
	}
	return e, nil
}

// Register creates a USER account. Roles are never self-assigned.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	name, ok := validate.Username(username)
	if !ok {
		return domain.User{}, domain.Invalid("username", "3 to 30 of letters, digits, '_', '.', '-'")
	}
	email, err := cleanEmail(email)
	if err != nil {
		return domain.User{}, err
	}
	h, err := s.hash(password)
	if err != nil {
		return domain.User{}, err
	}
	return s.Users.Create(ctx, domain.User{Username: name, Email: email, Hash: h, Role: domain.RoleUser})
}

// Login checks credentials and issues a token pair. Unknown users and
// wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, username, password string) (auth.Pair, domain.User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.Pair{}, domain.User{}, ErrBadCreds
		}
		return auth.Pair{}, domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return auth.Pair{}, domain.User{}, ErrBadCreds
	}
	pair, err := s.Tokens.Issue(u)
	return pair, u, err
}

// Refresh trades a refresh token for a new pair. The account is reloaded so
// role changes and deletions take effect.
func (s *AccountService) Refresh(ctx context.Context, refresh string) (auth.Pair, error) {
	claims, err := s.Tokens.VerifyRefresh(refresh)
	if err != nil {
		return auth.Pair{}, err
	}
	u, err := s.Users.ByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return auth.Pair{}, auth.ErrInvalidToken
		}
		return auth.Pair{}, err
	}
	return s.Tokens.Issue(u)
}

// Authenticate verifies an access token without touching the database.
func (s *AccountService) Authenticate(access string) (domain.Viewer, error) {
	claims, err := s.Tokens.VerifyAccess(access)
	if err != nil {
		return domain.Viewer{}, err
	}
	return claims.Viewer(), nil
}

func (s *AccountService) GetUser(ctx context.Context, v domain.Viewer, id string) (domain.User, error) {
	if !v.CanAct(id) {
		return domain.User{}, domain.ErrForbidden
	}
	return s.Users.ByID(ctx, id)
}

func (s *AccountService) ListUsers(ctx context.Context, v domain.Viewer, page int) (domain.Page[domain.User], error) {
	if !v.IsStaff() {
		return domain.Page[domain.User]{}, domain.ErrForbidden
	}
	limit, offset := window(page, s.cfg.PageSize)
	items, total, err := s.Users.List(ctx, limit, offset)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return pageOf(items, total, page, s.cfg.PageSize), nil
}

// UpdateUser changes email and, when password is non-empty, the password.
func (s *AccountService) UpdateUser(ctx context.Context, v domain.Viewer, id, email, password string) (domain.User, error) {
	if !v.CanAct(id) {
		return domain.User{}, domain.ErrForbidden
	}
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if u.Email, err = cleanEmail(email); err != nil {
		return domain.User{}, err
	}
	if password != "" {
		if u.Hash, err = s.hash(password); err != nil {
			return domain.User{}, err
		}
	}
	if err := s.Users.Update(ctx, id, u.Email, u.Hash); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

// DeleteUser removes the account together with its orders and reviews.
func (s *AccountService) DeleteUser(ctx context.Context, v domain.Viewer, id string) error {
	if !v.CanAct(id) {
		return domain.ErrForbidden
	}
	return s.Users.Delete(ctx, id)
}
