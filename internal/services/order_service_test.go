package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/services"
)

func TestPlaceOrder_Succeeds(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, "u-alice", "lamp-001", 2)
	require.NoError(t, err)
	assert.NotEmpty(t, o.ID)
	assert.NotEmpty(t, o.OrderedAt)
	assert.Equal(t, "u-alice", o.UserID)
	assert.Equal(t, 2, o.Quantity)

	qty, err := svc.Inv.Qty(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 98, qty)

	stored, err := svc.Orders.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, stored)
}

func TestPlaceOrder_InsufficientStockChangesNothing(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, "u-alice", "chair-001", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 10, stockErr.Requested)
	assert.Equal(t, "Oak Reading Chair", stockErr.ProductName)

	qty, err := svc.Inv.Qty(ctx, "chair-001")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	orders, _, err := svc.Orders.CountForProduct(ctx, "chair-001")
	require.NoError(t, err)
	assert.Zero(t, orders)
}

func TestPlaceOrder_RejectsBadInput(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	cases := []struct {
		name      string
		userID    string
		productID string
		qty       int
		want      error
	}{
		{"zero quantity", "u-alice", "lamp-001", 0, domain.ErrInvalidInput},
		{"negative quantity", "u-alice", "lamp-001", -1, domain.ErrInvalidInput},
		{"missing product", "u-alice", "nope", 1, domain.ErrProductNotFound},
		{"missing user", "ghost", "lamp-001", 1, domain.ErrUserNotFound},
		{"out of stock product", "u-alice", "desk-001", 1, domain.ErrInsufficientStock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, tc.userID, tc.productID, tc.qty)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	qty, err := svc.Inv.Qty(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 100, qty)
	_, total, err := svc.Orders.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPlaceOrder_IsNotIdempotent(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	first, err := svc.PlaceOrder(ctx, "u-bob", "lamp-001", 3)
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, "u-bob", "lamp-001", 3)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	qty, err := svc.Inv.Qty(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 94, qty)

	orders, units, err := svc.Orders.CountForProduct(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 2, orders)
	assert.Equal(t, 6, units)
}

func TestPlaceOrder_ConcurrentOrdersDoNotOversell(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()
	setStock(t, db, "chair-001", 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.PlaceOrder(ctx, "u-alice", "chair-001", 6)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)

	qty, err := svc.Inv.Qty(ctx, "chair-001")
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
}

func TestPlaceOrder_StockNeverNegativeUnderLoad(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	const initial = 40 // pen-001 seed stock
	restocked, err := svc.Inv.Restock(ctx, "pen-001", 5)
	require.NoError(t, err)
	require.Equal(t, initial+5, restocked)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(qty int) {
			defer wg.Done()
			_, err := svc.PlaceOrder(ctx, "u-bob", "pen-001", qty)
			if err == nil {
				mu.Lock()
				placed += qty
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}(i%4 + 1)
	}
	wg.Wait()

	qty, err := svc.Inv.Qty(ctx, "pen-001")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, qty, 0)
	assert.LessOrEqual(t, placed, initial+5)
	assert.Equal(t, initial+5-placed, qty)

	_, units, err := svc.Orders.CountForProduct(ctx, "pen-001")
	require.NoError(t, err)
	assert.Equal(t, placed, units)
}

func TestPlaceOrder_CancelledContextWritesNothing(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.PlaceOrder(ctx, "u-alice", "lamp-001", 1)
	require.Error(t, err)

	qty, err := svc.Inv.Qty(context.Background(), "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 100, qty)
}

func TestPlaceOrder_InvalidatesCachedProduct(t *testing.T) {
	db := memdb(t)
	c := cache.NewProducts(newMemStorage(), "product:", time.Minute)
	catalog := services.NewCatalogService(db, c, settings)
	orders := services.NewOrderService(db, c, settings)
	ctx := context.Background()

	p, err := catalog.GetProduct(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 100, p.StockQuantity)

	_, err = orders.PlaceOrder(ctx, "u-alice", "lamp-001", 2)
	require.NoError(t, err)

	p, err = catalog.GetProduct(ctx, "lamp-001")
	require.NoError(t, err)
	assert.Equal(t, 98, p.StockQuantity)
}

func TestOrderQueries_RoleFiltering(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	mine, err := svc.PlaceOrder(ctx, "u-alice", "lamp-001", 1)
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, "u-bob", "pen-001", 1)
	require.NoError(t, err)

	page, err := svc.ListOrders(ctx, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, mine.ID, page.Results[0].ID)

	page, err = svc.ListOrders(ctx, staff, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)

	_, err = svc.ListOrders(ctx, domain.Viewer{}, 1)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.GetOrder(ctx, bob, mine.ID)
	assert.ErrorIs(t, err, domain.ErrOrderHidden)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.ErrOrderNotFound.Error(), err.Error())

	got, err := svc.GetOrder(ctx, staff, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)
}

func TestDeleteOrder_OwnerOrStaffNoRestock(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, settings)
	ctx := context.Background()

	o, err := svc.PlaceOrder(ctx, "u-alice", "chair-001", 2)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, bob, o.ID), domain.ErrForbidden)
	require.NoError(t, svc.DeleteOrder(ctx, alice, o.ID))
	assert.ErrorIs(t, svc.DeleteOrder(ctx, staff, o.ID), domain.ErrOrderNotFound)

	qty, err := svc.Inv.Qty(ctx, "chair-001")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
}

func TestOrderService_PagesUseConfiguredSize(t *testing.T) {
	db := memdb(t)
	svc := services.NewOrderService(db, nil, services.Settings{PageSize: 2})
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := svc.PlaceOrder(ctx, "u-alice", "lamp-001", 1)
		require.NoError(t, err)
	}

	page, err := svc.ListOrders(ctx, alice, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Len(t, page.Results, 1)

	page, err = svc.ListOrders(ctx, alice, 4)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
}
