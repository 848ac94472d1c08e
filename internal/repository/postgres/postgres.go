package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cropprospector/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS recommendation_queries (
		id                 UUID PRIMARY KEY,
		location           TEXT        NOT NULL,
		soil_type          TEXT        NOT NULL,
		water_availability TEXT        NOT NULL,
		top_crop           TEXT        NOT NULL,
		top_profit         INTEGER     NOT NULL,
		crop_count         INTEGER     NOT NULL,
		soil_fallback      BOOLEAN     NOT NULL DEFAULT FALSE,
		location_fallback  BOOLEAN     NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_recommendation_queries_created_at
		ON recommendation_queries (created_at DESC);
`

// HistoryRepository implements domain.HistoryRepository on PostgreSQL
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new PostgreSQL repository
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Connect opens a pool and verifies it with a ping
func Connect(ctx context.Context, databaseURL string) (*HistoryRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}
	return NewHistoryRepository(pool), nil
}

// EnsureSchema creates the history table if it does not exist
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to create schema: %w", err)
	}
	return nil
}

// SaveQuery persists a query summary to PostgreSQL
func (r *HistoryRepository) SaveQuery(ctx context.Context, rec domain.QueryRecord) error {
	query := `
		INSERT INTO recommendation_queries (
			id, location, soil_type, water_availability, top_crop,
			top_profit, crop_count, soil_fallback, location_fallback, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.Location, rec.SoilType, rec.WaterAvailability, rec.TopCrop,
		rec.TopProfit, rec.CropCount, rec.SoilFallback, rec.LocationFallback, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save query: %w", err)
	}

	return nil
}

// RecentQueries retrieves the newest query summaries
func (r *HistoryRepository) RecentQueries(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	query := `
		SELECT id::text, location, soil_type, water_availability, top_crop,
			   top_profit, crop_count, soil_fallback, location_fallback, created_at
		FROM recommendation_queries
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query history: %w", err)
	}
	defer rows.Close()

	results := make([]domain.QueryRecord, 0, limit)
	for rows.Next() {
		var q domain.QueryRecord
		err := rows.Scan(
			&q.ID, &q.Location, &q.SoilType, &q.WaterAvailability, &q.TopCrop,
			&q.TopProfit, &q.CropCount, &q.SoilFallback, &q.LocationFallback, &q.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan history row: %w", err)
		}
		results = append(results, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read history rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *HistoryRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w: %w", domain.ErrHistoryUnavailable, err)
	}
	return nil
}

// Close releases the pool
func (r *HistoryRepository) Close() error {
	r.pool.Close()
	return nil
}

var _ domain.HistoryRepository = (*HistoryRepository)(nil)
