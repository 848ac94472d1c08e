package postgres

import (
	"context"
	"sync"

	"github.com/cropprospector/backend/internal/domain"
)

// DefaultMemoryCapacity is used when a non-positive capacity is requested
const DefaultMemoryCapacity = 500

// MemoryRepository keeps the most recent queries in process. It stands in
// for PostgreSQL when no database is configured or reachable.
type MemoryRepository struct {
	mu    sync.RWMutex
	ring  []domain.QueryRecord
	next  int
	count int
}

// NewMemoryRepository creates a ring buffer holding up to capacity records
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryRepository{ring: make([]domain.QueryRecord, capacity)}
}

// SaveQuery stores rec, evicting the oldest record when full
func (r *MemoryRepository) SaveQuery(ctx context.Context, rec domain.QueryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.next] = rec
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	return nil
}

// RecentQueries returns up to limit records, newest first
func (r *MemoryRepository) RecentQueries(ctx context.Context, limit int) ([]domain.QueryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := min(limit, r.count)
	if n <= 0 {
		return []domain.QueryRecord{}, nil
	}
	out := make([]domain.QueryRecord, 0, n)
	idx := r.next
	for range n {
		idx = (idx - 1 + len(r.ring)) % len(r.ring)
		out = append(out, r.ring[idx])
	}
	return out, nil
}

// Health always returns nil in memory mode
func (r *MemoryRepository) Health(context.Context) error {
	return nil
}

// Close is a no-op in memory mode
func (r *MemoryRepository) Close() error {
	return nil
}

var _ domain.HistoryRepository = (*MemoryRepository)(nil)
