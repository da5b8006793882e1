package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tuanna8687/price-tracker/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_history (
	id                  UUID PRIMARY KEY,
	product_id          TEXT NOT NULL,
	price               NUMERIC(12, 2) NOT NULL,
	original_price      NUMERIC(12, 2),
	discount_percentage NUMERIC(5, 2),
	currency            VARCHAR(3) NOT NULL DEFAULT 'VND',
	is_available        BOOLEAN NOT NULL DEFAULT TRUE,
	recorded_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_price_history_product_recorded
	ON price_history (product_id, recorded_at);`

const selectColumns = `id, product_id, price, original_price, discount_percentage,
	currency, is_available, recorded_at`

// PostgresStore keeps records in the price_history table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to cfg.URL and pings the server.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("tracker: parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("tracker: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("tracker: ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the price_history table and its index if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("tracker: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Add(ctx context.Context, r Record) error {
	const query = `
		INSERT INTO price_history
			(id, product_id, price, original_price, discount_percentage, currency, is_available, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		r.ID, r.ProductID, r.Price, r.OriginalPrice, r.DiscountPercentage,
		r.Currency, r.IsAvailable, r.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("tracker: insert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, productID string) (Record, bool, error) {
	query := `SELECT ` + selectColumns + `
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1`

	r, err := scanRecord(s.pool.QueryRow(ctx, query, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("tracker: latest record: %w", err)
	}
	return r, true, nil
}

func (s *PostgresStore) History(ctx context.Context, productID string, limit int) ([]Record, error) {
	query := `SELECT ` + selectColumns + `
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at DESC`
	args := []any{productID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	return s.query(ctx, query, args...)
}

func (s *PostgresStore) All(ctx context.Context, productID string) ([]Record, error) {
	query := `SELECT ` + selectColumns + `
		FROM price_history
		WHERE product_id = $1
		ORDER BY recorded_at ASC`
	return s.query(ctx, query, productID)
}

func (s *PostgresStore) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tracker: query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("tracker: scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tracker: iterate records: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(
		&r.ID, &r.ProductID, &r.Price, &r.OriginalPrice, &r.DiscountPercentage,
		&r.Currency, &r.IsAvailable, &r.RecordedAt,
	)
	return r, err
}
