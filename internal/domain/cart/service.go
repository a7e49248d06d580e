package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/xenking/tmall-storefront/internal/domain/product"
)

// Service encapsulates cart business logic on top of the repository and the
// catalog read model.
type Service struct {
	lines    Repository
	products product.Repository
}

// NewService creates a cart Service with the required dependencies.
func NewService(lines Repository, products product.Repository) *Service {
	return &Service{lines: lines, products: products}
}

// AddOrMerge adds a product to the caller's cart. A repeat add for the same
// (product, size, color) combination increases the existing line's quantity
// instead of creating a duplicate row. Quantity defaults to 1 when the
// request omits or zeroes it.
func (s *Service) AddOrMerge(ctx context.Context, userID, productID int64, quantity int, size, color string) (*Line, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if quantity < 1 {
		quantity = 1
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, errors.Wrap(err, "check product")
	}
	if !p.Enabled {
		return nil, ErrProductUnavailable
	}

	line, err := s.lines.Upsert(ctx, Line{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Size:      size,
		Color:     color,
	})
	if err != nil {
		return nil, errors.Wrap(err, "upsert cart line")
	}
	return line, nil
}

// UpdateQuantity sets a new quantity on the caller's line, clamped to a
// minimum of 1. A line can only leave the cart through Remove or checkout.
func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*Line, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if quantity < 1 {
		quantity = 1
	}
	return s.lines.UpdateQuantity(ctx, userID, lineID, quantity)
}

// Remove deletes the caller's line. Removing an already-removed line
// succeeds, so retried deletes stay harmless.
func (s *Service) Remove(ctx context.Context, userID, lineID int64) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	return s.lines.Delete(ctx, userID, lineID)
}

// List returns the caller's cart joined with current catalog data.
func (s *Service) List(ctx context.Context, userID int64) ([]View, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	return s.lines.ListByUser(ctx, userID)
}
