package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dafibh/fortuna/fortuna-tracker/internal/domain"
	"github.com/dafibh/fortuna/fortuna-tracker/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultSnapshotTTL is how long a fetched snapshot is served before refetching
	DefaultSnapshotTTL = 5 * time.Minute
	// DefaultFetchTimeout bounds one snapshot fetch, independent of the caller
	DefaultFetchTimeout = 30 * time.Second
)

// SnapshotService owns the fetch-then-replace cycle of per-session snapshots.
// Snapshots are never patched; every refresh replaces the whole snapshot.
//
// Every fetch takes a generation number when it starts. Refresh and Invalidate
// raise a per-session fence, and a fetch that started below the fence or below
// the stored snapshot's generation is discarded instead of stored.
type SnapshotService struct {
	transactionRepo domain.TransactionRepository
	investmentRepo  domain.InvestmentRepository
	store           domain.SnapshotRepository
	ttl             time.Duration
	fetchTimeout    time.Duration
	fetches         singleflight.Group
	eventPublisher  websocket.EventPublisher
	sessionCloser   websocket.SessionCloser
	now             func() time.Time

	generation atomic.Uint64
	mu         sync.Mutex // guards fences and the compare-and-replace on store
	fences     map[string]fence
}

type fence struct {
	generation uint64
	raisedAt   time.Time
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(
	transactionRepo domain.TransactionRepository,
	investmentRepo domain.InvestmentRepository,
	store domain.SnapshotRepository,
	ttl time.Duration,
) *SnapshotService {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &SnapshotService{
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		store:           store,
		ttl:             ttl,
		fetchTimeout:    DefaultFetchTimeout,
		now:             time.Now,
		fences:          make(map[string]fence),
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *SnapshotService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetSessionCloser sets who disconnects a session's listeners once its snapshot is evicted
func (s *SnapshotService) SetSessionCloser(closer websocket.SessionCloser) {
	s.sessionCloser = closer
}

func (s *SnapshotService) publishEvent(sessionKey string, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(sessionKey, event)
	}
}

// Current returns the session's snapshot, fetching it when missing or older than the TTL.
// Concurrent callers for the same session share one fetch.
func (s *SnapshotService) Current(ctx context.Context, sessionKey string) (*domain.Snapshot, error) {
	if snap, ok := s.store.Get(sessionKey); ok && s.now().Sub(snap.FetchedAt) < s.ttl {
		return snap, nil
	}
	return s.fetch(ctx, sessionKey)
}

// Peek returns the stored snapshot without fetching, fresh or not
func (s *SnapshotService) Peek(sessionKey string) (*domain.Snapshot, bool) {
	return s.store.Get(sessionKey)
}

// Refresh fetches fresh data after a mutation. A fetch already in flight may
// predate the mutation, so it is neither joined nor allowed to store its result.
func (s *SnapshotService) Refresh(ctx context.Context, sessionKey string) (*domain.Snapshot, error) {
	s.raiseFence(sessionKey)
	s.fetches.Forget(sessionKey)
	return s.fetch(ctx, sessionKey)
}

// Invalidate drops the session's snapshot and any fetch still in flight for it
func (s *SnapshotService) Invalidate(sessionKey string) {
	s.raiseFence(sessionKey)
	s.fetches.Forget(sessionKey)
	s.store.Invalidate(sessionKey)
}

// EvictStale drops snapshots older than the TTL, closes the listeners of the
// evicted sessions and returns their keys
func (s *SnapshotService) EvictStale() []string {
	now := s.now()
	evicted := s.store.EvictOlderThan(now.Add(-s.ttl))

	// no fetch outlives fetchTimeout, so older fences can no longer reject anything
	s.mu.Lock()
	for key, f := range s.fences {
		if now.Sub(f.raisedAt) > s.ttl+s.fetchTimeout {
			delete(s.fences, key)
		}
	}
	s.mu.Unlock()

	if s.sessionCloser != nil {
		for _, key := range evicted {
			s.sessionCloser.CloseSession(key, websocket.SnapshotEvicted())
		}
	}
	return evicted
}

func (s *SnapshotService) raiseFence(sessionKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fences[sessionKey] = fence{generation: s.generation.Add(1), raisedAt: s.now()}
}

// replaceIfCurrent stores snap unless a fence or a newer snapshot supersedes it.
// It returns the snapshot callers should see and whether snap was stored.
func (s *SnapshotService) replaceIfCurrent(sessionKey string, snap *domain.Snapshot) (*domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, hasExisting := s.store.Get(sessionKey)
	if f, ok := s.fences[sessionKey]; ok && snap.Generation < f.generation {
		if hasExisting && existing.Generation > f.generation {
			return existing, false
		}
		return snap, false
	}
	if hasExisting && existing.Generation > snap.Generation {
		return existing, false
	}

	s.store.Replace(sessionKey, snap)
	return snap, true
}

func (s *SnapshotService) fetch(ctx context.Context, sessionKey string) (*domain.Snapshot, error) {
	result, err, shared := s.fetches.Do(sessionKey, func() (interface{}, error) {
		return s.load(ctx, sessionKey)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debug().Str("session", sessionKey).Msg("Joined in-flight snapshot fetch")
	}
	return result.(*domain.Snapshot), nil
}

// load fetches transactions and investments in parallel and replaces the snapshot.
// The fetch is shared by every joined caller, so it keeps the first caller's
// values (the bearer token) but not its cancellation.
func (s *SnapshotService) load(ctx context.Context, sessionKey string) (*domain.Snapshot, error) {
	generation := s.generation.Add(1)
	startedAt := s.now()
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	var (
		transactions []*domain.Transaction
		investments  []*domain.Investment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.List(gctx, nil, nil)
		return err
	})
	g.Go(func() error {
		var err error
		investments, err = s.investmentRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}

	snap := &domain.Snapshot{
		Transactions: transactions,
		Investments:  investments,
		FetchedAt:    startedAt,
		Generation:   generation,
	}

	visible, stored := s.replaceIfCurrent(sessionKey, snap)
	if !stored {
		log.Debug().
			Str("session", sessionKey).
			Uint64("generation", generation).
			Msg("Discarded superseded snapshot")
		return visible, nil
	}

	log.Debug().
		Str("session", sessionKey).
		Uint64("generation", generation).
		Int("transactions", len(transactions)).
		Int("investments", len(investments)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Replaced snapshot")

	s.publishEvent(sessionKey, websocket.SnapshotReplaced(websocket.SnapshotReplacedPayload{
		Transactions: len(transactions),
		Investments:  len(investments),
		FetchedAt:    snap.FetchedAt,
	}))

	return snap, nil
}
