// Package sqlite stores query history in a local SQLite file using the
// pure-Go modernc driver, so no cgo toolchain is needed.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cropprospector/backend/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS recommendation_queries (
  id TEXT PRIMARY KEY,
  location TEXT NOT NULL,
  soil_type TEXT NOT NULL,
  water_availability TEXT NOT NULL,
  top_crop TEXT NOT NULL,
  top_profit INTEGER NOT NULL,
  crop_count INTEGER NOT NULL,
  soil_fallback INTEGER NOT NULL DEFAULT 0,
  location_fallback INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recommendation_queries_created_at
  ON recommendation_queries(created_at DESC);
`

// queryRow is the storage shape; created_at is unix nanoseconds so ordering
// stays exact regardless of driver time formatting.
type queryRow struct {
	ID                string `db:"id"`
	Location          string `db:"location"`
	SoilType          string `db:"soil_type"`
	WaterAvailability string `db:"water_availability"`
	TopCrop           string `db:"top_crop"`
	TopProfit         int    `db:"top_profit"`
	CropCount         int    `db:"crop_count"`
	SoilFallback      bool   `db:"soil_fallback"`
	LocationFallback  bool   `db:"location_fallback"`
	CreatedAt         int64  `db:"created_at"`
}

func toRow(rec domain.QueryRecord) queryRow {
	return queryRow{
		ID:                rec.ID,
		Location:          rec.Location,
		SoilType:          rec.SoilType,
		WaterAvailability: rec.WaterAvailability,
		TopCrop:           rec.TopCrop,
		TopProfit:         rec.TopProfit,
		CropCount:         rec.CropCount,
		SoilFallback:      rec.SoilFallback,
		LocationFallback:  rec.LocationFallback,
		CreatedAt:         rec.CreatedAt.UnixNano(),
	}
}

func (r queryRow) record() domain.QueryRecord {
	return domain.QueryRecord{
		ID:                r.ID,
		Location:          r.Location,
		SoilType:          r.SoilType,
		WaterAvailability: r.WaterAvailability,
		TopCrop:           r.TopCrop,
		TopProfit:         r.TopProfit,
		CropCount:         r.CropCount,
		SoilFallback:      r.SoilFallback,
		LocationFallback:  r.LocationFallback,
		CreatedAt:         time.Unix(0, r.CreatedAt).UTC(),
	}
}

// HistoryRepository implements domain.HistoryRepository on SQLite
type HistoryRepository struct {
	db *sqlx.DB
}

// Open opens (or creates) the database at path and bootstraps the schema
func Open(ctx context.Context, path string) (*HistoryRepository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}
	// One connection serialises writers and keeps per-connection pragmas applied.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: failed to apply %q: %w", pragma, err)
		}
	}

	repo := &HistoryRepository{db: db}
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// EnsureSchema creates the history table if it does not exist
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: failed to create schema: %w", err)
	}
	return nil
}

// SaveQuery persists a query summary
func (r *HistoryRepository) SaveQuery(ctx context.Context, rec domain.QueryRecord) error {
	const query = `
INSERT INTO recommendation_queries (
  id, location, soil_type, water_availability, top_crop,
  top_profit, crop_count, soil_fallback, location_fallback, created_at
) VALUES (
  :id, :location, :soil_type, :water_availability, :top_crop,
  :top_profit, :crop_count, :soil_fallback, :location_fallback, :created_at
)`
	if _, err := r.db.NamedExecContext(ctx, query, toRow(rec)); err != nil {
		return fmt.Errorf("sqlite: failed to save query: %w", err)
	}
	return nil
}

// RecentQueries returns up to limit records, newest first
func (r *HistoryRepository) RecentQueries(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	const query = `
SELECT id, location, soil_type, water_availability, top_crop,
       top_profit, crop_count, soil_fallback, location_fallback, created_at
FROM recommendation_queries
ORDER BY created_at DESC, rowid DESC
LIMIT ?`

	var rows []queryRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("sqlite: failed to query history: %w", err)
	}

	out := make([]domain.QueryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// Health pings the database
func (r *HistoryRepository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w: %w", domain.ErrHistoryUnavailable, err)
	}
	return nil
}

// Close closes the database
func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

var _ domain.HistoryRepository = (*HistoryRepository)(nil)
