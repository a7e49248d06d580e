// Package order implements the order engine: checkout validation, total
// calculation, atomic persistence, and the status state machine.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors shared across the order engine.
var (
	// ErrUnauthenticated is returned when no caller identity is supplied.
	ErrUnauthenticated = errors.New("caller identity required")
	// ErrNoLines is returned when a checkout request carries no line items.
	ErrNoLines = errors.New("order lines required")
	// ErrNotFound is returned when an order does not exist or is not owned
	// by the caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("order not found")
	// ErrCodeTaken is returned by the repository when the generated order
	// code collides with an existing one.
	ErrCodeTaken = errors.New("order code already taken")
	// ErrStale is returned when a conditional status update matched no row
	// because a concurrent transition won.
	ErrStale = errors.New("order status changed concurrently")
)

// Order is a checked-out purchase with frozen pricing. Everything except the
// status and its attached timestamps is immutable after creation.
type Order struct {
	ID            int64
	Code          string
	UserID        int64
	Shipping      ShippingInfo
	PaymentMethod string
	Total         decimal.Decimal
	Status        Status
	Lines         []Line
	CreatedAt     time.Time
	PaidAt        *time.Time
	ShippedAt     *time.Time
	DeliveredAt   *time.Time
}

// ShippingInfo is the shipping snapshot taken at checkout.
type ShippingInfo struct {
	Receiver      string
	Mobile        string
	AddressCode   string
	DetailAddress string
	PostalCode    string
}

// Line is one frozen product/price/quantity snapshot belonging to an Order.
// Price is the unit price the checkout request carried; it is never re-read
// from the live catalog. ProductName and ProductImage are joined from the
// current catalog purely for display and may lag the snapshot.
type Line struct {
	ID           int64
	ProductID    int64
	Price        decimal.Decimal
	Quantity     int
	Size         string
	Color        string
	Note         string
	ProductName  string
	ProductImage string
}

// Repository defines persistence operations for orders. Create must persist
// the header and all lines atomically: either the whole order exists or none
// of it does.
type Repository interface {
	// Create persists o with its lines and fills ID and CreatedAt.
	// Returns ErrCodeTaken when o.Code collides with an existing order.
	Create(ctx context.Context, o *Order) error
	// GetByID returns the caller's order with its lines, or ErrNotFound.
	GetByID(ctx context.Context, userID, orderID int64) (*Order, error)
	// ListByUser returns the caller's orders newest first, each with lines.
	// A non-nil status restricts the result to that status.
	ListByUser(ctx context.Context, userID int64, status *Status) ([]Order, error)
	// UpdateStatus moves the caller's order from one status to another and
	// stamps the transition timestamp. Returns ErrNotFound when the order
	// does not exist for the caller, ErrStale when the current status no
	// longer matches from.
	UpdateStatus(ctx context.Context, userID, orderID int64, from, to Status, at time.Time) error
}

// CartCleaner removes consumed cart rows after a successful checkout.
// Satisfied by the cart repository; kept narrow so the order engine does not
// depend on the cart package.
type CartCleaner interface {
	DeleteByIDs(ctx context.Context, userID int64, ids []int64) error
}
