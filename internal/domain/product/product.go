// Package product holds the catalog read model. The storefront only reads
// the catalog; writes happen out of band through cmd/seed-db.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a catalog item available for purchase. Price is the current
// list price; SalePrice, when set, is the discounted price shown in carts.
type Product struct {
	ID        int64
	Name      string
	Title     string
	Price     decimal.Decimal
	SalePrice *decimal.Decimal
	Enabled   bool
	Image     string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
