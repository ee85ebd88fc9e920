package quiz

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// LeaderboardRefresher periodically rebuilds the redis streak board from the
// streak table, healing any drift from missed best-effort updates.
type LeaderboardRefresher struct {
	log      *zap.Logger
	streaks  *repository.Streaks
	board    *repository.Leaderboard
	interval time.Duration
}

func NewLeaderboardRefresher(log *zap.Logger, streaks *repository.Streaks, board *repository.Leaderboard, interval time.Duration) *LeaderboardRefresher {
	if interval <= 0 {
		interval = time.Hour
	}
	return &LeaderboardRefresher{log: log, streaks: streaks, board: board, interval: interval}
}

// Start runs the refresher in a goroutine until ctx is cancelled.
func (r *LeaderboardRefresher) Start(ctx context.Context) {
	r.log.Info("Starting streak leaderboard refresher...",
		zap.Duration("interval", r.interval))
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.refresh(ctx)
			}
		}
	}()
}

func (r *LeaderboardRefresher) refresh(ctx context.Context) {
	rows, err := r.streaks.All(ctx)
	if err != nil {
		r.log.Error("Failed to load streaks for leaderboard rebuild", zap.Error(err))
		return
	}

	entries := make([]repository.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, repository.LeaderboardEntry{
			AccountID: row.AccountID,
			Streak:    row.Current,
		})
	}
	if err := r.board.Rebuild(ctx, entries); err != nil {
		r.log.Error("Failed to rebuild streak leaderboard", zap.Error(err))
		return
	}
	r.log.Debug("Streak leaderboard rebuilt", zap.Int("accounts", len(entries)))
}
