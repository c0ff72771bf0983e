// Package seed performs the one-time import of the bundled catalog fixture.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/metrics"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	lockKey = "catalog:seed:lock"
	lockTTL = 2 * time.Minute
)

// Locker keeps concurrent replicas from seeding the same database.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Result struct {
	Categories int
	Products   int
	Skipped    bool // Another replica held the lock
}

type Seeder struct {
	db     *sqlx.DB
	locker Locker
	logger logger.ZapLogger
}

// NewSeeder builds a seeder. locker may be nil when Redis is not configured.
func NewSeeder(db *sqlx.DB, locker Locker, log logger.ZapLogger) *Seeder {
	return &Seeder{db: db, locker: locker, logger: log}
}

// Run imports fx into empty tables:
//   - no products: categories then products, keeping explicit ids
//   - products but no categories: categories only
//   - otherwise nothing is inserted
//
// Both id sequences are resynced afterwards so later inserts do not collide
// with seeded ids.
func (s *Seeder) Run(ctx context.Context, fx *Fixture) (*Result, error) {
	if s.locker != nil {
		ok, err := s.locker.Acquire(ctx, lockKey, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire seed lock: %w", err)
		}
		if !ok {
			s.logger.Info("seed lock held elsewhere, skipping")
			return &Result{Skipped: true}, nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
				s.logger.Warn("failed to release seed lock", zap.Error(err))
			}
		}()
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	var productCount, categoryCount int
	if err := tx.GetContext(ctx, &productCount, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if err := tx.GetContext(ctx, &categoryCount, `SELECT COUNT(*) FROM categories`); err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	res := &Result{}
	switch {
	case productCount == 0:
		if res.Categories, err = insertCategories(ctx, tx, fx.Categories); err != nil {
			return nil, err
		}
		if res.Products, err = insertProducts(ctx, tx, fx.Products); err != nil {
			return nil, err
		}
	case categoryCount == 0:
		if res.Categories, err = insertCategories(ctx, tx, fx.Categories); err != nil {
			return nil, err
		}
	default:
		s.logger.Info("catalog already populated, skipping import",
			zap.Int("products", productCount),
			zap.Int("categories", categoryCount),
		)
	}

	for _, table := range []string{"products", "categories"} {
		if err := resyncSequence(ctx, tx, table); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit seed: %w", err)
	}

	metrics.RecordSeedRows("categories", res.Categories)
	metrics.RecordSeedRows("products", res.Products)
	s.logger.Info("seed finished",
		zap.Int("categories_inserted", res.Categories),
		zap.Int("products_inserted", res.Products),
	)
	return res, nil
}

func insertCategories(ctx context.Context, tx *sqlx.Tx, categories []Category) (int, error) {
	inserted := 0
	for _, c := range categories {
		var (
			query = `INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
			args  = []interface{}{c.Name}
		)
		if c.ID != nil {
			query = `INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`
			args = []interface{}{*c.ID, c.Name}
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return inserted, fmt.Errorf("insert category %q: %w", c.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	return inserted, nil
}

// insertProducts resolves a category name only when no id was given, same as
// the write path of the API.
func insertProducts(ctx context.Context, tx *sqlx.Tx, products []Product) (int, error) {
	const columns = `title, price, description, category_id, image, rating_rate, rating_count`
	const categoryExpr = `COALESCE($4::integer, (SELECT id FROM categories WHERE name = $8))`

	for i, p := range products {
		in := p.Input
		args := []interface{}{in.Title, in.Price, in.Description, in.CategoryID, in.Image, in.RatingRate, in.RatingCount, in.CategoryName}

		query := `INSERT INTO products (` + columns + `)
            VALUES ($1, $2, $3, ` + categoryExpr + `, $5, $6, $7)`
		if p.ID != nil {
			query = `INSERT INTO products (id, ` + columns + `)
            VALUES ($9, $1, $2, $3, ` + categoryExpr + `, $5, $6, $7)`
			args = append(args, *p.ID)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return i, fmt.Errorf("insert product %d: %w", i, err)
		}
	}
	return len(products), nil
}

// resyncSequence points the serial sequence at MAX(id), or resets it to 1
// when the table is empty.
func resyncSequence(ctx context.Context, tx *sqlx.Tx, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 1), MAX(id) IS NOT NULL) FROM %[1]s`,
		table,
	)
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("resync %s sequence: %w", table, err)
	}
	return nil
}
