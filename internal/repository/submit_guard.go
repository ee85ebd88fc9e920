package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submitGuardTTL = 5 * time.Second

// SubmitGuard is a short-TTL redis check that catches network-retry
// double-submits before they reach the database. It is an optimization only;
// the unique ledger index remains the authoritative guard, and a nil client
// disables the fast path entirely.
type SubmitGuard struct {
	rdb *redis.Client
}

func NewSubmitGuard(rdb *redis.Client) *SubmitGuard {
	return &SubmitGuard{rdb: rdb}
}

// FirstSubmit marks the (session, question) pair as seen and reports whether
// this call was the first within the guard window. Redis errors are treated
// as "first" so a cache outage never blocks answer recording.
func (g *SubmitGuard) FirstSubmit(ctx context.Context, sessionID, questionID int64) bool {
	if g.rdb == nil {
		return true
	}
	ok, err := g.rdb.SetNX(ctx, guardKey(sessionID, questionID), 1, submitGuardTTL).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release frees the guard key so a retry after a failed ledger write is not
// mistaken for a duplicate.
func (g *SubmitGuard) Release(ctx context.Context, sessionID, questionID int64) {
	if g.rdb == nil {
		return
	}
	g.rdb.Del(ctx, guardKey(sessionID, questionID))
}

func guardKey(sessionID, questionID int64) string {
	return fmt.Sprintf("guard:submit:%d:%d", sessionID, questionID)
}
