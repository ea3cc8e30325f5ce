package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

type Product struct {
	ID            string          `db:"id" json:"id"`
	CategoryID    string          `db:"category_id" json:"category_id"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Price         decimal.Decimal `db:"price" json:"price"`
	ImageURL      string          `db:"image_url" json:"image_url"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	CreatedAt     string          `db:"created_at" json:"created_at"`
}

// InStock reports whether at least one unit can be ordered.
func (p Product) InStock() bool { return p.StockQuantity > 0 }

type Order struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Quantity  int    `db:"quantity" json:"quantity"`
	OrderedAt string `db:"ordered_at" json:"ordered_at"`
}

type Review struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"product_id"`
	UserID    string `db:"user_id" json:"user_id"`
	Rating    int    `db:"rating" json:"rating"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Page is one slice of a listing plus the total row count.
type Page[T any] struct {
	Count    int `json:"count"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Results  []T `json:"results"`
}

type Availability struct {
	ProductID string `json:"product_id"`
	Status    string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty       int    `json:"qty"`
}
