package domain

import (
	"context"
	"errors"
	"time"
)

// ErrHistoryUnavailable is returned when the history store cannot be reached
var ErrHistoryUnavailable = errors.New("history store unavailable")

// QueryRecord summarises one recommendation request for the history log.
// Only the query and its headline are kept; results are never served from here.
type QueryRecord struct {
	ID                string    `json:"id" db:"id"`
	Location          string    `json:"location" db:"location"`
	SoilType          string    `json:"soilType" db:"soil_type"`
	WaterAvailability string    `json:"waterAvailability" db:"water_availability"`
	TopCrop           string    `json:"topCrop" db:"top_crop"`
	TopProfit         int       `json:"topProfit" db:"top_profit"`
	CropCount         int       `json:"cropCount" db:"crop_count"`
	SoilFallback      bool      `json:"soilFallback" db:"soil_fallback"`
	LocationFallback  bool      `json:"locationFallback" db:"location_fallback"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
}

// HistoryRepository defines the interface for query history persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type HistoryRepository interface {
	// SaveQuery persists a query summary
	SaveQuery(ctx context.Context, rec QueryRecord) error

	// RecentQueries returns at most limit records, newest first
	RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error)

	// Health checks store connectivity
	Health(ctx context.Context) error

	// Close releases the underlying connections
	Close() error
}
