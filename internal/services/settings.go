package services

import "storefront/internal/domain"

// Settings are the tunables shared by every service.
type Settings struct {
	PageSize     int // listing page size
	OrderRetries int // attempts per PlaceOrder on busy or conflicting writes
	HashCost     int // bcrypt cost for new and changed passwords
}

func (s Settings) withDefaults() Settings {
	if s.PageSize <= 0 {
		s.PageSize = 10
	}
	if s.OrderRetries <= 0 {
		s.OrderRetries = 3
	}
	if s.HashCost <= 0 {
		s.HashCost = 12
	}
	return s
}

func window(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return size, (page - 1) * size
}

func pageOf[T any](items []T, total, page, size int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	return domain.Page[T]{Count: total, Page: page, PageSize: size, Results: items}
}
