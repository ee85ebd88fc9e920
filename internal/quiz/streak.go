package quiz

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// StreakService maintains the per-account consecutive-day counters. Day
// boundaries are UTC calendar days for every caller, so a session completed
// at 23:59 in one timezone and 00:01 in another lands on well-defined days.
type StreakService struct {
	log     *zap.Logger
	streaks *repository.Streaks
	board   *repository.Leaderboard
}

func NewStreakService(log *zap.Logger, streaks *repository.Streaks, board *repository.Leaderboard) *StreakService {
	return &StreakService{log: log, streaks: streaks, board: board}
}

// OnSessionCompleted applies the day rule for one completed session: same
// day is a no-op, the next day increments, any gap resets to 1. Callers must
// invoke it at most once per completion (session completion is guarded by a
// compare-and-set), which keeps the counter at one mutation per day.
func (s *StreakService) OnSessionCompleted(ctx context.Context, accountID int64, completedAt time.Time) (*models.Streak, error) {
	prev, err := s.streaks.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	next := advanceStreak(prev, accountID, models.UTCDay(completedAt))
	if prev != nil && next == *prev {
		return prev, nil
	}
	if err := s.streaks.Save(ctx, &next); err != nil {
		return nil, err
	}

	// Leaderboard updates are best effort; redis being down must not fail
	// the completion path.
	if err := s.board.SetStreak(ctx, accountID, next.Current); err != nil {
		s.log.Warn("Failed to update streak leaderboard",
			zap.Int64("accountID", accountID), zap.Error(err))
	}
	return &next, nil
}

// Current returns the account's streak row, zero-valued when none exists.
func (s *StreakService) Current(ctx context.Context, accountID int64) (*models.Streak, error) {
	streak, err := s.streaks.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &models.Streak{AccountID: accountID}, nil
	}
	return streak, nil
}

// Leaderboard returns the top-n current streaks. It reads the redis board
// when available and falls back to a database scan otherwise.
func (s *StreakService) Leaderboard(ctx context.Context, n int) ([]repository.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}
	entries, err := s.board.Top(ctx, n)
	if err != nil {
		s.log.Warn("Streak leaderboard read failed, falling back to database", zap.Error(err))
	}
	if len(entries) > 0 {
		return entries, nil
	}

	rows, err := s.streaks.All(ctx)
	if err != nil {
		return nil, err
	}
	all := make([]repository.LeaderboardEntry, 0, len(rows))
	for _, r := range rows {
		all = append(all, repository.LeaderboardEntry{AccountID: r.AccountID, Streak: r.Current})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Streak > all[j].Streak })
	if len(all) > n {
		all = all[:n]
	}
	return all, nil
}

// advanceStreak computes the next streak state from the previous row and the
// completion day. A nil or unparseable previous record starts a fresh streak.
func advanceStreak(prev *models.Streak, accountID int64, day string) models.Streak {
	if prev == nil || prev.LastActiveDate == "" {
		return models.Streak{AccountID: accountID, Current: 1, Longest: 1, LastActiveDate: day}
	}

	next := *prev
	switch dayDiff(prev.LastActiveDate, day) {
	case 0:
		// Already counted today.
	case 1:
		next.Current++
		if next.Current > next.Longest {
			next.Longest = next.Current
		}
		next.LastActiveDate = day
	default:
		if d := dayDiff(prev.LastActiveDate, day); d < 0 {
			// Completion behind the recorded day (clock skew); never move the
			// streak backwards.
			return *prev
		}
		next.Current = 1
		if next.Longest < 1 {
			next.Longest = 1
		}
		next.LastActiveDate = day
	}
	return next
}

// dayDiff returns the whole days from a to b, both in models.DayFormat.
func dayDiff(a, b string) int {
	ta, errA := time.Parse(models.DayFormat, a)
	tb, errB := time.Parse(models.DayFormat, b)
	if errA != nil || errB != nil {
		// Treat a corrupt stored day as a gap so the streak restarts cleanly.
		return 2
	}
	return int(tb.Sub(ta).Hours() / 24)
}
