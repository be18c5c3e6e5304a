package domain

import (
	"context"
	"time"
)

// Snapshot is the most recently fetched state of a session's remote data.
// It is never patched: every mutation replaces it wholesale.
// FetchedAt is when the fetch started; Generation orders fetches of one process.
type Snapshot struct {
	Transactions []*Transaction
	Investments  []*Investment
	FetchedAt    time.Time
	Generation   uint64
}

// SnapshotRepository keeps at most one snapshot per session
type SnapshotRepository interface {
	Get(sessionKey string) (*Snapshot, bool)
	Replace(sessionKey string, snapshot *Snapshot)
	Invalidate(sessionKey string)
	EvictOlderThan(cutoff time.Time) []string
}

type contextKey string

const tokenContextKey contextKey = "bearer_token"

// ContextWithToken attaches the caller's bearer token for the remote API
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext returns the bearer token attached by ContextWithToken
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
