package service

import (
	"testing"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotWorker_StartStop(t *testing.T) {
	f := newSnapshotFixture(time.Minute)
	worker := NewSnapshotWorker(f.service, zerolog.Nop(), DefaultSnapshotWorkerConfig())

	require.NoError(t, worker.Start())
	assert.True(t, worker.IsRunning())

	// second start is a no-op
	require.NoError(t, worker.Start())

	worker.Stop()
	assert.False(t, worker.IsRunning())

	// stopping twice must not block
	worker.Stop()
}

func TestSnapshotWorker_InvalidSchedule(t *testing.T) {
	f := newSnapshotFixture(time.Minute)
	worker := NewSnapshotWorker(f.service, zerolog.Nop(), SnapshotWorkerConfig{Schedule: "not a schedule"})

	assert.Error(t, worker.Start())
	assert.False(t, worker.IsRunning())
}

func TestSnapshotWorker_EvictsOnSchedule(t *testing.T) {
	f := newSnapshotFixture(time.Minute)
	f.store.Replace("stale", &domain.Snapshot{FetchedAt: time.Now().Add(-time.Hour)})

	worker := NewSnapshotWorker(f.service, zerolog.Nop(), SnapshotWorkerConfig{Schedule: "@every 1s"})
	require.NoError(t, worker.Start())
	defer worker.Stop()

	assert.Eventually(t, func() bool {
		return f.store.Len() == 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSnapshotWorker_EvictDirect(t *testing.T) {
	f := newSnapshotFixture(time.Minute)
	f.store.Replace("stale", &domain.Snapshot{FetchedAt: time.Now().Add(-time.Hour)})

	worker := NewSnapshotWorker(f.service, zerolog.Nop(), SnapshotWorkerConfig{})
	worker.evict()

	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, []string{"stale"}, f.publisher.ClosedSessions())
	assert.Equal(t, DefaultEvictSchedule, worker.schedule)
}
