package snapshot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceAndGet(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("alice")
	assert.False(t, ok)

	first := &domain.Snapshot{FetchedAt: time.Now()}
	store.Replace("alice", first)

	got, ok := store.Get("alice")
	require.True(t, ok)
	assert.Same(t, first, got)

	second := &domain.Snapshot{FetchedAt: time.Now()}
	store.Replace("alice", second)

	got, _ = store.Get("alice")
	assert.Same(t, second, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Invalidate(t *testing.T) {
	store := NewStore()
	store.Replace("alice", &domain.Snapshot{})
	store.Replace("bob", &domain.Snapshot{})

	store.Invalidate("alice")

	_, ok := store.Get("alice")
	assert.False(t, ok)
	_, ok = store.Get("bob")
	assert.True(t, ok)
}

func TestStore_EvictOlderThan(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewStore()
	store.Replace("stale", &domain.Snapshot{FetchedAt: now.Add(-2 * time.Hour)})
	store.Replace("fresh", &domain.Snapshot{FetchedAt: now.Add(-time.Minute)})
	store.Replace("older", &domain.Snapshot{FetchedAt: now.Add(-3 * time.Hour)})

	evicted := store.EvictOlderThan(now.Add(-time.Hour))

	assert.Equal(t, []string{"older", "stale"}, evicted)
	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("session-%d", i%5)
			store.Replace(key, &domain.Snapshot{FetchedAt: time.Now()})
			store.Get(key)
			if i%7 == 0 {
				store.Invalidate(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, store.Len(), 5)
}
