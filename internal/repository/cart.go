package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/tmall-storefront/internal/domain/cart"
)

const (
	// The conflict target is the variant tuple, so a repeat add becomes a
	// conditional increment in one statement. No check-then-insert race.
	upsertCartLineSQL = `INSERT INTO cart_items (user_id, product_id, quantity, size, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, product_id, size, color) DO UPDATE SET
			quantity = cart_items.quantity + EXCLUDED.quantity,
			updated_at = now()
		RETURNING id, user_id, product_id, quantity, size, color, created_at, updated_at`

	updateCartQuantitySQL = `UPDATE cart_items
		SET quantity = $3, updated_at = now()
		WHERE id = $2 AND user_id = $1
		RETURNING id, user_id, product_id, quantity, size, color, created_at, updated_at`

	deleteCartLineSQL = `DELETE FROM cart_items WHERE id = $2 AND user_id = $1`

	deleteCartLinesByIDsSQL = `DELETE FROM cart_items WHERE user_id = $1 AND id = ANY($2)`

	listCartSQL = `SELECT c.id, c.user_id, c.product_id, c.quantity, c.size, c.color,
			c.created_at, c.updated_at,
			p.name, p.title, p.price, p.sale_price, p.image
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Upsert inserts the line or increments the quantity of the existing row for
// the same (user, product, size, color) tuple, atomically.
func (r *CartRepository) Upsert(ctx context.Context, line cart.Line) (*cart.Line, error) {
	rows, err := r.pool.Query(ctx, upsertCartLineSQL,
		line.UserID, line.ProductID, line.Quantity, line.Size, line.Color,
	)
	if err != nil {
		return nil, fmt.Errorf("upserting cart line: %w", err)
	}

	stored, err := pgx.CollectExactlyOneRow(rows, scanCartLine)
	if err != nil {
		return nil, fmt.Errorf("upserting cart line: %w", err)
	}
	return &stored, nil
}

// UpdateQuantity sets the quantity on the caller's line. Absent or foreign
// rows surface as cart.ErrNotFound.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, lineID int64, quantity int) (*cart.Line, error) {
	rows, err := r.pool.Query(ctx, updateCartQuantitySQL, userID, lineID, quantity)
	if err != nil {
		return nil, fmt.Errorf("updating cart line %d: %w", lineID, err)
	}

	stored, err := pgx.CollectExactlyOneRow(rows, scanCartLine)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, fmt.Errorf("updating cart line %d: %w", lineID, err)
	}
	return &stored, nil
}

// Delete removes the caller's line. Zero rows affected is success: deletes
// are idempotent.
func (r *CartRepository) Delete(ctx context.Context, userID, lineID int64) error {
	_, err := r.pool.Exec(ctx, deleteCartLineSQL, userID, lineID)
	if err != nil {
		return fmt.Errorf("deleting cart line %d: %w", lineID, err)
	}
	return nil
}

// DeleteByIDs removes the caller's lines with the given IDs. IDs owned by
// other users are silently skipped by the user_id predicate.
func (r *CartRepository) DeleteByIDs(ctx context.Context, userID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, deleteCartLinesByIDsSQL, userID, ids)
	if err != nil {
		return fmt.Errorf("deleting cart lines %v: %w", ids, err)
	}
	return nil
}

// ListByUser returns the caller's lines joined with current catalog data.
func (r *CartRepository) ListByUser(ctx context.Context, userID int64) ([]cart.View, error) {
	rows, err := r.pool.Query(ctx, listCartSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart for user %d: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanCartView)
}

func scanCartLine(row pgx.CollectableRow) (cart.Line, error) {
	var l cart.Line
	err := row.Scan(
		&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.Size, &l.Color,
		&l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func scanCartView(row pgx.CollectableRow) (cart.View, error) {
	var v cart.View
	err := row.Scan(
		&v.ID, &v.UserID, &v.ProductID, &v.Quantity, &v.Size, &v.Color,
		&v.CreatedAt, &v.UpdatedAt,
		&v.ProductName, &v.ProductTitle, &v.Price, &v.SalePrice, &v.Image,
	)
	return v, err
}
