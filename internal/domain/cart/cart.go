// Package cart implements the per-user cart store: add-or-merge, quantity
// updates, removal, and the live-priced cart view.
package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnauthenticated is returned when no caller identity is supplied.
	ErrUnauthenticated = errors.New("caller identity required")
	// ErrNotFound is returned when a cart line does not exist or belongs to
	// another user. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("cart item not found")
	// ErrProductUnavailable is returned when the referenced product does not
	// exist or is disabled.
	ErrProductUnavailable = errors.New("product unavailable")
)

// Line is one buyer-selected product/variant/quantity pending checkout.
// At most one line exists per (user, product, size, color) tuple.
type Line struct {
	ID        int64
	UserID    int64
	ProductID int64
	Quantity  int
	Size      string
	Color     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is a cart line joined with current catalog data. Prices are live, not
// frozen: the cart reflects today's pricing until checkout snapshots it into
// order lines.
type View struct {
	Line
	ProductName  string
	ProductTitle string
	Price        decimal.Decimal
	SalePrice    *decimal.Decimal
	Image        string
}

// Repository defines persistence operations for cart lines. Upsert must be a
// single atomic conditional increment on the variant tuple so concurrent
// duplicate adds never produce two rows or a constraint crash.
type Repository interface {
	// Upsert inserts the line or, when the (user, product, size, color)
	// tuple already exists, increments the stored quantity by line.Quantity.
	// It returns the stored row either way.
	Upsert(ctx context.Context, line Line) (*Line, error)
	// UpdateQuantity sets the quantity on the caller's line, or ErrNotFound.
	UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*Line, error)
	// Delete removes the caller's line. Deleting an absent line is a no-op.
	Delete(ctx context.Context, userID, lineID int64) error
	// DeleteByIDs removes the caller's lines with the given IDs.
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
	// ListByUser returns the caller's lines joined with live catalog data.
	ListByUser(ctx context.Context, userID int64) ([]View, error)
}
