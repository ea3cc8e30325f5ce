package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"storefront/internal/cache"
	"storefront/internal/domain"
	"storefront/internal/repos"
)

// OrderService is the only writer of orders. Placement checks stock and
// debits it in one transaction so concurrent orders cannot oversell.
type OrderService struct {
	db      *sqlx.DB
	Prods   *repos.ProductRepo
	Users   *repos.UserRepo
	Inv     *repos.InventoryRepo
	Orders  *repos.OrderRepo
	Cache   *cache.Products
	cfg     Settings
	backoff time.Duration
}

func NewOrderService(db *sqlx.DB, c *cache.Products, cfg Settings) *OrderService {
	return &OrderService{
		db:      db,
		Prods:   repos.NewProductRepo(db),
		Users:   repos.NewUserRepo(db),
		Inv:     repos.NewInventoryRepo(db),
		Orders:  repos.NewOrderRepo(db),
		Cache:   c,
		cfg:     cfg.withDefaults(),
		backoff: 10 * time.Millisecond,
	}
}

// PlaceOrder debits quantity units of productID for userID and records the
// order. It is not idempotent: every successful call places a new order.
func (s *OrderService) PlaceOrder(ctx context.Context, userID, productID string, quantity int) (domain.Order, error) {
	if quantity <= 0 {
		return domain.Order{}, domain.ErrInvalidQuantity
	}

	var (
		o   domain.Order
		err error
	)
	for attempt := 1; ; attempt++ {
		o, err = s.place(ctx, userID, productID, quantity)
		if err == nil || !retryable(err) || attempt >= s.cfg.OrderRetries {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Order{}, ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	if err != nil {
		if repos.IsBusy(err) {
			err = fmt.Errorf("%w: %v", domain.ErrConflict, err)
		}
		return domain.Order{}, err
	}

	s.Cache.Invalidate(productID)
	return o, nil
}

func retryable(err error) bool {
	return errors.Is(err, domain.ErrConflict) || repos.IsBusy(err)
}

// place is one attempt of the atomic unit.
func (s *OrderService) place(ctx context.Context, userID, productID string, quantity int) (domain.Order, error) {
	var o domain.Order
	err := repos.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		p, err := s.Prods.Lookup(ctx, tx, productID)
		if err != nil {
			return err
		}
		ok, err := s.Users.Exists(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrUserNotFound
		}
		if quantity > p.StockQuantity {
			return &domain.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.StockQuantity,
				Requested:   quantity,
			}
		}

		ok, err = s.Inv.Decrement(ctx, tx, productID, quantity)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrConflict
		}

		o, err = s.Orders.Insert(ctx, tx, domain.Order{UserID: userID, ProductID: productID, Quantity: quantity})
		return err
	})
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// ListOrders shows staff every order and everyone else only their own.
func (s *OrderService) ListOrders(ctx context.Context, v domain.Viewer, page int) (domain.Page[domain.Order], error) {
	owner := v.UserID
	if v.IsStaff() {
		owner = ""
	} else if owner == "" {
		return domain.Page[domain.Order]{}, domain.ErrUnauthorized
	}
	limit, offset := window(page, s.cfg.PageSize)
	items, total, err := s.Orders.List(ctx, owner, limit, offset)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return pageOf(items, total, page, s.cfg.PageSize), nil
}

// GetOrder returns ErrOrderHidden when the order exists but belongs to
// someone else and v is not staff.
func (s *OrderService) GetOrder(ctx context.Context, v domain.Viewer, id string) (domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !v.CanAct(o.UserID) {
		return domain.Order{}, domain.ErrOrderHidden
	}
	return o, nil
}

// DeleteOrder removes the record only. Stock is not returned.
func (s *OrderService) DeleteOrder(ctx context.Context, v domain.Viewer, id string) error {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if !v.CanAct(o.UserID) {
		return domain.ErrForbidden
	}
	return s.Orders.Delete(ctx, id)
}
