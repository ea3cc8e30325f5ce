package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)

	// ErrOrderHidden is what a non-owner sees for someone else's order. It
	// reads exactly like ErrOrderNotFound to the caller.
	ErrOrderHidden = fmt.Errorf("order %w", ErrNotFound)
)

// InsufficientStockError carries enough detail for a caller to retry with a
// smaller quantity.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.ProductName, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// Invalid builds an ErrInvalidInput naming the offending field.
func Invalid(field, reason string) error {
	return &FieldError{Field: field, Reason: reason}
}

type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

func (e *FieldError) Is(target error) bool { return target == ErrInvalidInput }
