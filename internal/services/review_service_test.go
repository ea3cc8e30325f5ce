package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/services"
)

func TestReviews_BoundToCaller(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(db, settings)
	ctx := context.Background()

	rv, err := svc.Create(ctx, bob, "lamp-001", 5, " lovely ")
	require.NoError(t, err)
	assert.Equal(t, "u-bob", rv.UserID)
	assert.Equal(t, "lovely", rv.Comment)

	_, err = svc.Create(ctx, domain.Viewer{}, "lamp-001", 5, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Create(ctx, bob, "lamp-001", 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, bob, "nope", 3, "")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	page, err := svc.List(ctx, "lamp-001", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
}

func TestReviews_AuthorOrStaffMayChange(t *testing.T) {
	db := memdb(t)
	svc := services.NewReviewService(db, settings)
	ctx := context.Background()

	rv, err := svc.Create(ctx, bob, "pen-001", 4, "smooth")
	require.NoError(t, err)

	_, err = svc.Update(ctx, alice, rv.ID, 1, "bad")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, alice, rv.ID), domain.ErrForbidden)

	updated, err := svc.Update(ctx, bob, rv.ID, 3, "scratchy")
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Rating)
	assert.Equal(t, "u-bob", updated.UserID)

	_, err = svc.Update(ctx, bob, rv.ID, 6, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.Delete(ctx, staff, rv.ID))
	_, err = svc.Get(ctx, rv.ID)
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
}
