// Package auth issues and verifies the bearer tokens the API accepts.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/domain"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and the wrong token type.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = fmt.Errorf("token has expired: %w", domain.ErrUnauthorized)
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Claims are the custom claims carried by both token types.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Viewer turns verified claims into the caller identity services expect.
func (c *Claims) Viewer() domain.Viewer {
	return domain.Viewer{UserID: c.UserID, Username: c.Username, Role: c.Role}
}

// Pair is what login and refresh hand back to the client.
type Pair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int64  `json:"expires_in"`
}

type Manager struct {
	cfg Config
	now func() time.Time
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, now: time.Now}
}

// Issue signs a fresh access/refresh pair for u.
func (m *Manager) Issue(u domain.User) (Pair, error) {
	access, err := m.sign(u, TypeAccess, m.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(u, TypeRefresh, m.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, ExpiresIn: int64(m.cfg.AccessTTL.Seconds())}, nil
}

func (m *Manager) sign(u domain.User, tokenType string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   u.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
}

func (m *Manager) parse(raw, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.Secret), nil
	}, jwt.WithIssuer(m.cfg.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) VerifyAccess(raw string) (*Claims, error)  { return m.parse(raw, TypeAccess) }
func (m *Manager) VerifyRefresh(raw string) (*Claims, error) { return m.parse(raw, TypeRefresh) }
