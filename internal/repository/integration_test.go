//go:build integration

package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/tmall-storefront/internal/domain/cart"
	"github.com/xenking/tmall-storefront/internal/domain/order"
	"github.com/xenking/tmall-storefront/internal/domain/product"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("storefront"),
		tcpostgres.WithUsername("storefront"),
		tcpostgres.WithPassword("storefront"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("connection string: %v", err)
	}

	pool, err = NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	if err := RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	return m.Run()
}

func seedProduct(t *testing.T, id int64, enabled bool) {
	t.Helper()
	err := NewProductRepository(pool).Upsert(context.Background(), product.Product{
		ID:      id,
		Name:    "tee",
		Title:   "Plain Tee",
		Price:   decimal.RequireFromString("19.90"),
		Enabled: enabled,
	})
	require.NoError(t, err)
}

func sampleOrder(userID int64, code string) *order.Order {
	return &order.Order{
		Code:   code,
		UserID: userID,
		Shipping: order.ShippingInfo{
			Receiver:      "Jane Doe",
			Mobile:        "13800000000",
			AddressCode:   "000000",
			DetailAddress: "1 Main Street",
		},
		PaymentMethod: "cod",
		Total:         decimal.RequireFromString("39.80"),
		Status:        order.StatusPending,
		Lines: []order.Line{
			{ProductID: 1, Price: decimal.RequireFromString("19.90"), Quantity: 2, Size: "M"},
		},
	}
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(pool)
	seedProduct(t, 1, true)
	seedProduct(t, 2, false)

	t.Run("get by id", func(t *testing.T) {
		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("19.90").Equal(p.Price))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		require.ErrorIs(t, err, product.ErrNotFound)
	})

	t.Run("list excludes disabled", func(t *testing.T) {
		products, err := repo.List(ctx)
		require.NoError(t, err)
		for _, p := range products {
			assert.NotEqual(t, int64(2), p.ID)
		}
	})
}

func TestCartRepository_UpsertMerges(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(pool)
	seedProduct(t, 1, true)
	const userID = 101

	first, err := repo.Upsert(ctx, cart.Line{UserID: userID, ProductID: 1, Quantity: 2, Size: "M", Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Quantity)

	second, err := repo.Upsert(ctx, cart.Line{UserID: userID, ProductID: 1, Quantity: 3, Size: "M", Color: "black"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	other, err := repo.Upsert(ctx, cart.Line{UserID: userID, ProductID: 1, Quantity: 1, Size: "L", Color: "black"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	views, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestCartRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(pool)
	seedProduct(t, 1, true)
	const userID = 102

	line, err := repo.Upsert(ctx, cart.Line{UserID: userID, ProductID: 1, Quantity: 1})
	require.NoError(t, err)

	updated, err := repo.UpdateQuantity(ctx, userID, line.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	_, err = repo.UpdateQuantity(ctx, userID+1, line.ID, 3)
	require.ErrorIs(t, err, cart.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, userID, line.ID))
	require.NoError(t, repo.Delete(ctx, userID, line.ID))

	views, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(pool)
	seedProduct(t, 1, true)
	const userID = 201

	o := sampleOrder(userID, "202503140001")
	require.NoError(t, repo.Create(ctx, o))
	assert.NotZero(t, o.ID)
	assert.NotZero(t, o.Lines[0].ID)

	got, err := repo.GetByID(ctx, userID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Code, got.Code)
	require.Len(t, got.Lines, 1)
	assert.True(t, decimal.RequireFromString("19.90").Equal(got.Lines[0].Price))
	assert.Equal(t, "tee", got.Lines[0].ProductName)

	_, err = repo.GetByID(ctx, userID+1, o.ID)
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderRepository_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(pool)
	seedProduct(t, 1, true)

	require.NoError(t, repo.Create(ctx, sampleOrder(202, "202503140002")))

	err := repo.Create(ctx, sampleOrder(202, "202503140002"))
	require.ErrorIs(t, err, order.ErrCodeTaken)
}

func TestOrderRepository_CreateRollsBackOnBadLine(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(pool)
	seedProduct(t, 1, true)
	const userID = 203

	bad := sampleOrder(userID, "202503140003")
	bad.Lines[0].Quantity = 0 // violates the quantity check constraint

	require.Error(t, repo.Create(ctx, bad))

	// The header must not survive the failed line insert.
	orders, err := repo.ListByUser(ctx, userID, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(pool)
	seedProduct(t, 1, true)
	const userID = 204

	o := sampleOrder(userID, "202503140004")
	require.NoError(t, repo.Create(ctx, o))

	at := time.Now()
	err := repo.UpdateStatus(ctx, userID, o.ID, order.StatusPending, order.StatusAwaitingShipment, at)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, userID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusAwaitingShipment, got.Status)
	require.NotNil(t, got.PaidAt)

	// A second transition from the stale status loses.
	err = repo.UpdateStatus(ctx, userID, o.ID, order.StatusPending, order.StatusCancelled, time.Now())
	require.ErrorIs(t, err, order.ErrStale)

	// Foreign caller reads as absent.
	err = repo.UpdateStatus(ctx, userID+1, o.ID, order.StatusAwaitingShipment, order.StatusAwaitingReceipt, time.Now())
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestOrderRepository_ListFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(pool)
	seedProduct(t, 1, true)
	const userID = 205

	first := sampleOrder(userID, "202503140005")
	require.NoError(t, repo.Create(ctx, first))
	second := sampleOrder(userID, "202503140006")
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.UpdateStatus(ctx, userID, first.ID,
		order.StatusPending, order.StatusAwaitingShipment, time.Now()))

	pending := order.StatusPending
	got, err := repo.ListByUser(ctx, userID, &pending)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)

	all, err := repo.ListByUser(ctx, userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
