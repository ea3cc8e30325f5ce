// Package cache keeps product point lookups in a fiber.Storage (Redis in
// production). Storage failures are logged and treated as misses.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/singleflight"

	"storefront/internal/domain"
)

// Loader fetches a product from the source of truth on a miss.
type Loader func(ctx context.Context, id string) (domain.Product, error)

// Products is a read-through product cache. A nil *Products, or one built
// over a nil storage, always loads from the source.
type Products struct {
	store  fiber.Storage
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

func NewProducts(store fiber.Storage, prefix string, ttl time.Duration) *Products {
	if store == nil {
		return nil
	}
	return &Products{store: store, prefix: prefix, ttl: ttl}
}

func (c *Products) key(id string) string { return c.prefix + id }

// Get returns the cached product or calls load. Concurrent misses for the
// same id share one load. hit reports whether storage answered.
func (c *Products) Get(ctx context.Context, id string, load Loader) (p domain.Product, hit bool, err error) {
	if c == nil {
		p, err = load(ctx, id)
		return p, false, err
	}

	data, err := c.store.Get(c.key(id))
	if err != nil {
		log.Printf("[cache] get %s: %v", id, err)
	} else if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err == nil {
			return p, true, nil
		}
		log.Printf("[cache] dropping undecodable entry %s", id)
	}

	v, err, _ := c.group.Do(id, func() (any, error) {
		p, err := load(ctx, id)
		if err != nil {
			return nil, err
		}
		c.put(p)
		return p, nil
	})
	if err != nil {
		return domain.Product{}, false, err
	}
	return v.(domain.Product), false, nil
}

func (c *Products) put(p domain.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("[cache] marshal %s: %v", p.ID, err)
		return
	}
	if err := c.store.Set(c.key(p.ID), data, c.ttl); err != nil {
		log.Printf("[cache] set %s: %v", p.ID, err)
	}
}

// Invalidate drops the entries for ids.
func (c *Products) Invalidate(ids ...string) {
	if c == nil {
		return
	}
	for _, id := range ids {
		if err := c.store.Delete(c.key(id)); err != nil {
			log.Printf("[cache] delete %s: %v", id, err)
		}
	}
}

func (c *Products) Close() error {
	if c == nil {
		return nil
	}
	return c.store.Close()
}
