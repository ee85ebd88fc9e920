package repository

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const streakLeaderboardKey = "leaderboard:streaks"

// LeaderboardEntry is one ranked account on the streak board.
type LeaderboardEntry struct {
	AccountID int64 `json:"account_id"`
	Streak    int   `json:"streak"`
}

// Leaderboard keeps current streaks in a redis sorted set. A nil client is
// legal: every method becomes a no-op so the rest of the service works
// without redis.
type Leaderboard struct {
	rdb *redis.Client
}

func NewLeaderboard(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb}
}

// SetStreak records the account's current streak on the board.
func (l *Leaderboard) SetStreak(ctx context.Context, accountID int64, current int) error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.ZAdd(ctx, streakLeaderboardKey, redis.Z{
		Score:  float64(current),
		Member: strconv.FormatInt(accountID, 10),
	}).Err()
}

// Top returns the n highest current streaks, best first.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if l.rdb == nil {
		return nil, nil
	}
	zs, err := l.rdb.ZRevRangeWithScores(ctx, streakLeaderboardKey, 0, int64(n)-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, LeaderboardEntry{AccountID: id, Streak: int(z.Score)})
	}
	return out, nil
}

// Rebuild replaces the whole board in one pipeline.
func (l *Leaderboard) Rebuild(ctx context.Context, entries []LeaderboardEntry) error {
	if l.rdb == nil {
		return nil
	}
	pipe := l.rdb.TxPipeline()
	pipe.Del(ctx, streakLeaderboardKey)
	for _, e := range entries {
		pipe.ZAdd(ctx, streakLeaderboardKey, redis.Z{
			Score:  float64(e.Streak),
			Member: strconv.FormatInt(e.AccountID, 10),
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}
