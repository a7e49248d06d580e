// Command seed-db loads the product catalog into PostgreSQL from a JSON
// file, plain or gzip-compressed.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/tmall-storefront/internal/domain/product"
	"github.com/xenking/tmall-storefront/internal/repository"
)

// seedWorkers bounds concurrent upserts against the pool.
const seedWorkers = 4

type productJSON struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Title     string           `json:"title"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice"`
	Enabled   *bool            `json:"enabled"`
	Image     string           `json:"image"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file (.json or .json.gz)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products, err := readProducts(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	repo := repository.NewProductRepository(pool)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(seedWorkers)

	for _, p := range products {
		g.Go(func() error {
			enabled := true
			if p.Enabled != nil {
				enabled = *p.Enabled
			}
			err := repo.Upsert(ctx, product.Product{
				ID:        p.ID,
				Name:      p.Name,
				Title:     p.Title,
				Price:     p.Price,
				SalePrice: p.SalePrice,
				Enabled:   enabled,
				Image:     p.Image,
			})
			if err != nil {
				return errors.Wrapf(err, "upsert product %d", p.ID)
			}
			slog.Info("upserted product", slog.Int64("id", p.ID), slog.String("name", p.Name))
			return nil
		})
	}

	return g.Wait()
}

// readProducts decodes the products file, transparently decompressing
// .gz dumps.
func readProducts(path string) ([]productJSON, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open products file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer gz.Close()
		r = gz
	}

	var products []productJSON
	if err := json.NewDecoder(r).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}
	return products, nil
}
