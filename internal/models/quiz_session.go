package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuizSession is one practice attempt. The question sequence is drawn and
// persisted at creation and never re-ordered afterwards; EndedAt doubles as
// the state flag (nil = active, set = completed).
type QuizSession struct {
	ID                    int64                      `json:"id" gorm:"primaryKey"`
	AccountID             int64                      `json:"account_id" gorm:"index;not null"`
	RequestedCount        int                        `json:"requested_count" gorm:"not null"`
	QuestionIDs           datatypes.JSONSlice[int64] `json:"question_ids"`
	Underfilled           bool                       `json:"underfilled"`
	StartedAt             time.Time                  `json:"started_at"`
	EndedAt               *time.Time                 `json:"ended_at"`
	DurationSeconds       int                        `json:"duration_seconds"`
	AvgSecondsPerQuestion float64                    `json:"avg_seconds_per_question"`
	CorrectCount          int                        `json:"correct_count"`
	TotalCount            int                        `json:"total_count"`
	CreatedAt             time.Time                  `json:"created_at"`
	UpdatedAt             time.Time                  `json:"updated_at"`
}

// Active reports whether the session still accepts answers.
func (s *QuizSession) Active() bool { return s.EndedAt == nil }

// Score returns correct/total in [0,1]; a session completed without any
// recorded attempts scores 0.
func (s *QuizSession) Score() float64 {
	if s.TotalCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalCount)
}

// SessionSummary is the completion read model returned to clients.
type SessionSummary struct {
	SessionID             int64      `json:"session_id"`
	AccountID             int64      `json:"account_id"`
	TotalQuestions        int        `json:"total_questions"`
	TotalAttempts         int        `json:"total_attempts"`
	CorrectAttempts       int        `json:"correct_attempts"`
	Score                 float64    `json:"score"`
	DurationSeconds       int        `json:"duration_seconds"`
	AvgSecondsPerQuestion float64    `json:"avg_seconds_per_question"`
	Underfilled           bool       `json:"underfilled"`
	StartedAt             time.Time  `json:"started_at"`
	EndedAt               *time.Time `json:"ended_at"`
}
