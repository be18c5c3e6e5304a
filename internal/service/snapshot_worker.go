package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultEvictSchedule runs eviction every five minutes
const DefaultEvictSchedule = "@every 5m"

// SnapshotWorker periodically evicts stale snapshots so idle sessions do not
// keep their data in memory
type SnapshotWorker struct {
	snapshots *SnapshotService
	logger    zerolog.Logger
	schedule  string
	cron      *cron.Cron
	mu        sync.Mutex
	running   bool
}

// SnapshotWorkerConfig holds configuration for the snapshot worker
type SnapshotWorkerConfig struct {
	Schedule string // cron spec, e.g. "@every 5m" or "*/10 * * * *"
}

// DefaultSnapshotWorkerConfig returns sensible defaults
func DefaultSnapshotWorkerConfig() SnapshotWorkerConfig {
	return SnapshotWorkerConfig{Schedule: DefaultEvictSchedule}
}

// NewSnapshotWorker creates a new snapshot worker
func NewSnapshotWorker(snapshots *SnapshotService, logger zerolog.Logger, config SnapshotWorkerConfig) *SnapshotWorker {
	if config.Schedule == "" {
		config.Schedule = DefaultEvictSchedule
	}

	return &SnapshotWorker{
		snapshots: snapshots,
		logger:    logger.With().Str("component", "snapshot_worker").Logger(),
		schedule:  config.Schedule,
	}
}

// Start schedules eviction. An invalid schedule is reported and nothing starts.
func (w *SnapshotWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, w.evict); err != nil {
		return fmt.Errorf("invalid eviction schedule %q: %w", w.schedule, err)
	}
	c.Start()

	w.cron = c
	w.running = true

	w.logger.Info().Str("schedule", w.schedule).Msg("Starting snapshot worker")
	return nil
}

// Stop waits for a running eviction to finish and stops the schedule
func (w *SnapshotWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	c := w.cron
	w.running = false
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping snapshot worker")
	<-c.Stop().Done()
	w.logger.Info().Msg("Snapshot worker stopped")
}

// IsRunning returns whether the worker is currently scheduled
func (w *SnapshotWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *SnapshotWorker) evict() {
	startTime := time.Now()
	evicted := w.snapshots.EvictStale()

	w.logger.Debug().
		Int("evicted", len(evicted)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed snapshot eviction")
}
