package models

import (
	"time"

	"gorm.io/datatypes"
)

// FinalReviewSession is the review variant of QuizSession, scoped to a
// topic/source pair. QuestionIDs is a snapshot of the account's eligible
// wrong questions captured at creation, so the review set does not drift
// while the session is in progress.
type FinalReviewSession struct {
	ID                    int64                      `json:"id" gorm:"primaryKey"`
	AccountID             int64                      `json:"account_id" gorm:"index;not null"`
	QuestionType          string                     `json:"question_type" gorm:"not null"`
	Source                string                     `json:"source"`
	LatestOnly            bool                       `json:"latest_only"`
	QuestionIDs           datatypes.JSONSlice[int64] `json:"question_ids"`
	TimeLimitSeconds      int                        `json:"time_limit_seconds"`
	StartedAt             time.Time                  `json:"started_at"`
	EndedAt               *time.Time                 `json:"ended_at"`
	DurationSeconds       int                        `json:"duration_seconds"`
	AvgSecondsPerQuestion float64                    `json:"avg_seconds_per_question"`
	CorrectCount          int                        `json:"correct_count"`
	TotalCount            int                        `json:"total_count"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

func (s *FinalReviewSession) Active() bool { return s.EndedAt == nil }

func (s *FinalReviewSession) Score() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalCount)
}
