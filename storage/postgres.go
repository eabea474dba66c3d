package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/wzlphp/asin-ai/config"
	"github.com/wzlphp/asin-ai/models"
)

// PostgresStore persists product snapshots. Snapshots are immutable,
// so the table is insert-only: a re-fetch of the same ASIN adds a new
// row instead of touching an old one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg config.DBConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := store.ensureSchema(schemaCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis records the target snapshot plus every resolved
// competitor snapshot from one analysis run. Returns the number of
// rows written.
func (s *PostgresStore) SaveAnalysis(ctx context.Context, a *models.Analysis) (int, error) {
	if a == nil || a.Target == nil {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO product_snapshots
			(asin, marketplace, title, brand, price, currency, bsr,
			 rating, review_count, payload, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	total := 0
	products := []*models.Product{a.Target}
	for _, c := range a.Competitors {
		if c.Product != nil {
			products = append(products, c.Product)
		}
	}
	for _, p := range products {
		var payload []byte
		if payload, err = json.Marshal(p); err != nil {
			return 0, fmt.Errorf("encode snapshot %s: %w", p.ASIN, err)
		}
		if _, err = stmt.ExecContext(
			ctx,
			p.ASIN,
			p.Marketplace,
			p.Title,
			p.Brand,
			p.Price.Amount,
			p.Price.Currency,
			p.BestSellerRank,
			p.Rating,
			p.ReviewCount,
			payload,
			p.FetchedAt,
		); err != nil {
			return 0, fmt.Errorf("insert snapshot %s: %w", p.ASIN, err)
		}
		total++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return total, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS product_snapshots (
			id BIGSERIAL PRIMARY KEY,
			asin TEXT NOT NULL,
			marketplace TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			bsr INTEGER NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			payload JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_asin
			ON product_snapshots(asin, marketplace);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
