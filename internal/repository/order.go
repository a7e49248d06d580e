package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/tmall-storefront/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (code, user_id, receiver, mobile, address_code,
			detail_address, postal_code, payment_method, total, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	insertOrderLineSQL = `INSERT INTO order_items (order_id, product_id, price, quantity, size, color, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	getOrderSQL = `SELECT id, code, user_id, receiver, mobile, address_code,
			detail_address, postal_code, payment_method, total, status,
			created_at, paid_at, shipped_at, delivered_at
		FROM orders WHERE id = $2 AND user_id = $1`

	listOrdersSQL = `SELECT id, code, user_id, receiver, mobile, address_code,
			detail_address, postal_code, payment_method, total, status,
			created_at, paid_at, shipped_at, delivered_at
		FROM orders
		WHERE user_id = $1 AND ($2::smallint IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC`

	// Display fields come from the live catalog; the frozen snapshot is the
	// price/quantity columns on order_items itself.
	listOrderLinesSQL = `SELECT i.id, i.order_id, i.product_id, i.price, i.quantity,
			i.size, i.color, i.note,
			COALESCE(p.name, ''), COALESCE(p.image, '')
		FROM order_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.order_id = ANY($1)
		ORDER BY i.id`

	orderExistsSQL = `SELECT 1 FROM orders WHERE id = $2 AND user_id = $1`

	uniqueViolationCode = "23505"
	ordersCodeConstraint = "orders_code_key"
)

// updateStatusSQL stamps the timestamp column attached to the target status
// (none for cancellation). The column name comes from the fixed map below,
// never from input.
var statusStampColumn = map[order.Status]string{
	order.StatusAwaitingShipment: "paid_at",
	order.StatusAwaitingReceipt:  "shipped_at",
	order.StatusCompleted:        "delivered_at",
}

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order header and every line in one transaction, then
// fills o.ID, o.CreatedAt, and the line IDs. A rollback leaves nothing
// behind, so no order can exist with zero lines.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	err = tx.QueryRow(ctx, insertOrderSQL,
		o.Code, o.UserID, o.Shipping.Receiver, o.Shipping.Mobile,
		o.Shipping.AddressCode, o.Shipping.DetailAddress, o.Shipping.PostalCode,
		o.PaymentMethod, o.Total, int16(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == ordersCodeConstraint {
			return order.ErrCodeTaken
		}
		return fmt.Errorf("creating order %q: %w", o.Code, err)
	}

	batch := &pgx.Batch{}
	for _, line := range o.Lines {
		batch.Queue(insertOrderLineSQL,
			o.ID, line.ProductID, line.Price, line.Quantity,
			line.Size, line.Color, line.Note,
		)
	}
	results := tx.SendBatch(ctx, batch)
	for i := range o.Lines {
		if err := results.QueryRow().Scan(&o.Lines[i].ID); err != nil {
			_ = results.Close()
			return fmt.Errorf("creating line %d of order %q: %w", i, o.Code, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("creating lines of order %q: %w", o.Code, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.Code, err)
	}
	return nil
}

// GetByID returns the caller's order with its lines. Absent and foreign
// orders both surface as order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, userID, orderID int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderSQL, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", orderID, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", orderID, err)
	}

	lines, err := r.loadLines(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Lines = lines[o.ID]
	return &o, nil
}

// ListByUser returns the caller's orders newest first, each with its lines.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, status *order.Status) ([]order.Order, error) {
	var statusArg *int16
	if status != nil {
		v := int16(*status)
		statusArg = &v
	}

	rows, err := r.pool.Query(ctx, listOrdersSQL, userID, statusArg)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

// UpdateStatus conditionally moves the caller's order between statuses. The
// guard on the current status makes concurrent transitions lose cleanly
// instead of overwriting each other.
func (r *OrderRepository) UpdateStatus(ctx context.Context, userID, orderID int64, from, to order.Status, at time.Time) error {
	sql := `UPDATE orders SET status = $4`
	args := []any{userID, orderID, int16(from), int16(to)}
	if col, ok := statusStampColumn[to]; ok {
		sql += fmt.Sprintf(", %s = $5", col)
		args = append(args, at)
	}
	sql += ` WHERE id = $2 AND user_id = $1 AND status = $3`

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", orderID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: the order vanished for this caller or another transition won.
	var one int
	err = r.pool.QueryRow(ctx, orderExistsSQL, userID, orderID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return order.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking order %d: %w", orderID, err)
	}
	return order.ErrStale
}

// loadLines fetches the lines of the given orders in one query, grouped by
// order ID.
func (r *OrderRepository) loadLines(ctx context.Context, orderIDs []int64) (map[int64][]order.Line, error) {
	rows, err := r.pool.Query(ctx, listOrderLinesSQL, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("loading order lines: %w", err)
	}

	grouped := make(map[int64][]order.Line, len(orderIDs))
	var line order.Line
	var orderID int64
	_, err = pgx.ForEachRow(rows, []any{
		&line.ID, &orderID, &line.ProductID, &line.Price, &line.Quantity,
		&line.Size, &line.Color, &line.Note,
		&line.ProductName, &line.ProductImage,
	}, func() error {
		grouped[orderID] = append(grouped[orderID], line)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading order lines: %w", err)
	}
	return grouped, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status int16
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.UserID,
		&o.Shipping.Receiver, &o.Shipping.Mobile, &o.Shipping.AddressCode,
		&o.Shipping.DetailAddress, &o.Shipping.PostalCode,
		&o.PaymentMethod, &o.Total, &status,
		&o.CreatedAt, &o.PaidAt, &o.ShippedAt, &o.DeliveredAt,
	)
	o.Status = order.Status(status)
	return o, err
}
