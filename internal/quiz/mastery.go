package quiz

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
	"github.com/mshraky3/MEDQUIZ-sub001/internal/repository"
)

// TopicAccuracy is one row of the per-topic breakdown.
type TopicAccuracy struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
}

// WrongFilters narrows a wrong-question query. LatestOnly switches the
// eligibility rule from "ever missed" to "most recent attempt is wrong".
type WrongFilters struct {
	Topic      string
	Source     string
	LatestOnly bool
	From       *time.Time
	To         *time.Time
}

// AccountOverview is the account-level analytics summary.
type AccountOverview struct {
	TotalAttempts   int     `json:"total_attempts"`
	CorrectAttempts int     `json:"correct_attempts"`
	Accuracy        float64 `json:"accuracy"`
	TopicsPracticed int     `json:"topics_practiced"`
	WrongQuestions  int     `json:"wrong_questions"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}

// MasteryService derives analytics from the attempt ledger and session
// history. It holds no state of its own; every call is a fresh scan.
type MasteryService struct {
	log       *zap.Logger
	analytics *repository.Analytics
	attempts  *repository.Attempts
	sessions  *repository.Sessions
	streaks   *repository.Streaks

	// reviewFeedsMastery folds final-review attempts into the general
	// aggregates when enabled.
	reviewFeedsMastery bool
}

func NewMasteryService(log *zap.Logger, analytics *repository.Analytics, attempts *repository.Attempts, sessions *repository.Sessions, streaks *repository.Streaks, reviewFeedsMastery bool) *MasteryService {
	return &MasteryService{
		log:                log,
		analytics:          analytics,
		attempts:           attempts,
		sessions:           sessions,
		streaks:            streaks,
		reviewFeedsMastery: reviewFeedsMastery,
	}
}

// AttemptHistory returns the account's raw ledger rows, newest first by
// default, narrowed by the given filters.
func (s *MasteryService) AttemptHistory(ctx context.Context, accountID int64, f repository.AttemptFilters) ([]models.QuestionAttempt, error) {
	return s.attempts.Query(ctx, accountID, f)
}

// AccuracyByTopic returns correct/total per topic. An account with no
// attempts gets an empty map, not an error.
func (s *MasteryService) AccuracyByTopic(ctx context.Context, accountID int64) (map[string]TopicAccuracy, error) {
	facts, err := s.analytics.Facts(ctx, accountID, repository.FactFilters{IncludeReview: s.reviewFeedsMastery})
	if err != nil {
		return nil, err
	}

	out := make(map[string]TopicAccuracy)
	for _, f := range facts {
		t := out[f.Topic]
		t.Total++
		if f.IsCorrect {
			t.Correct++
		}
		out[f.Topic] = t
	}
	for topic, t := range out {
		t.Accuracy = float64(t.Correct) / float64(t.Total)
		out[topic] = t
	}
	return out, nil
}

// WrongQuestionIDs returns the account's incorrectly answered question ids,
// deduplicated. Under LatestOnly the most recent attempt per question
// decides: a question later answered correctly is excluded.
func (s *MasteryService) WrongQuestionIDs(ctx context.Context, accountID int64, f WrongFilters) ([]int64, error) {
	facts, err := s.analytics.Facts(ctx, accountID, repository.FactFilters{
		Topic:         f.Topic,
		Source:        f.Source,
		From:          f.From,
		To:            f.To,
		IncludeReview: s.reviewFeedsMastery,
	})
	if err != nil {
		return nil, err
	}

	wrong := make(map[int64]bool)
	if f.LatestOnly {
		// Facts arrive newest first, so the first sighting of a question is
		// its most recent attempt and settles eligibility.
		decided := make(map[int64]bool)
		for _, fact := range facts {
			if decided[fact.QuestionID] {
				continue
			}
			decided[fact.QuestionID] = true
			if !fact.IsCorrect {
				wrong[fact.QuestionID] = true
			}
		}
	} else {
		for _, fact := range facts {
			if !fact.IsCorrect {
				wrong[fact.QuestionID] = true
			}
		}
	}

	ids := make([]int64, 0, len(wrong))
	for id := range wrong {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// RecentSessions returns the account's completed sessions, most recent first.
func (s *MasteryService) RecentSessions(ctx context.Context, accountID int64, limit int) ([]models.SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	sessions, err := s.sessions.RecentCompleted(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]models.SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, summarize(&sessions[i]))
	}
	return out, nil
}

// Overview aggregates the account's whole history into one snapshot.
func (s *MasteryService) Overview(ctx context.Context, accountID int64) (*AccountOverview, error) {
	facts, err := s.analytics.Facts(ctx, accountID, repository.FactFilters{IncludeReview: s.reviewFeedsMastery})
	if err != nil {
		return nil, err
	}

	ov := &AccountOverview{}
	topics := make(map[string]bool)
	wrong := make(map[int64]bool)
	for _, f := range facts {
		ov.TotalAttempts++
		if f.IsCorrect {
			ov.CorrectAttempts++
		} else {
			wrong[f.QuestionID] = true
		}
		topics[f.Topic] = true
	}
	if ov.TotalAttempts > 0 {
		ov.Accuracy = float64(ov.CorrectAttempts) / float64(ov.TotalAttempts)
	}
	ov.TopicsPracticed = len(topics)
	ov.WrongQuestions = len(wrong)

	streak, err := s.streaks.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if streak != nil {
		ov.CurrentStreak = streak.Current
		ov.LongestStreak = streak.Longest
	}
	return ov, nil
}

func summarize(s *models.QuizSession) models.SessionSummary {
	return models.SessionSummary{
		SessionID:             s.ID,
		AccountID:             s.AccountID,
		TotalQuestions:        len(s.QuestionIDs),
		TotalAttempts:         s.TotalCount,
		CorrectAttempts:       s.CorrectCount,
		Score:                 s.Score(),
		DurationSeconds:       s.DurationSeconds,
		AvgSecondsPerQuestion: s.AvgSecondsPerQuestion,
		Underfilled:           s.Underfilled,
		StartedAt:             s.StartedAt,
		EndedAt:               s.EndedAt,
	}
}
