package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropprospector/backend/internal/domain"
)

func record(i int) domain.QueryRecord {
	return domain.QueryRecord{ID: fmt.Sprintf("q-%d", i), Location: "Punjab", TopCrop: "Tomato"}
}

func ids(records []domain.QueryRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestMemoryRepositoryNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(10)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveQuery(ctx, record(i)))
	}

	got, err := repo.RecentQueries(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"q-2", "q-1", "q-0"}, ids(got))

	got, err = repo.RecentQueries(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"q-2", "q-1"}, ids(got))
}

func TestMemoryRepositoryEvictsOldest(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.SaveQuery(ctx, record(i)))
	}

	got, err := repo.RecentQueries(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"q-4", "q-3", "q-2"}, ids(got))
}

func TestMemoryRepositoryEmpty(t *testing.T) {
	repo := NewMemoryRepository(0)
	assert.Len(t, repo.ring, DefaultMemoryCapacity)

	got, err := repo.RecentQueries(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.NoError(t, repo.Health(context.Background()))
	assert.NoError(t, repo.Close())
}

func TestMemoryRepositoryCancelledContext(t *testing.T) {
	repo := NewMemoryRepository(3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.SaveQuery(ctx, record(1)), context.Canceled)
	_, err := repo.RecentQueries(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepositoryConcurrentSaves(t *testing.T) {
	repo := NewMemoryRepository(1000)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.SaveQuery(ctx, record(i)))
		}()
	}
	wg.Wait()

	got, err := repo.RecentQueries(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, got, 50)
}
