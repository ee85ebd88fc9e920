package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Attempts is the append-only answer ledger. Record never updates or deletes
// rows; the unique (session, question) index turns a replayed submit into
// gorm.ErrDuplicatedKey instead of a second counted attempt.
type Attempts struct {
	db *gorm.DB
}

func NewAttempts(db *gorm.DB) *Attempts {
	return &Attempts{db: db}
}

// AttemptFilters narrows a ledger query. Nil/zero fields are ignored.
type AttemptFilters struct {
	Correct   *bool
	Topic     string
	Source    string
	SessionID *int64
	From      *time.Time
	To        *time.Time
	Ascending bool
	Limit     int
}

func (r *Attempts) Record(ctx context.Context, a *models.QuestionAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *Attempts) RecordFinal(ctx context.Context, a *models.FinalQuizAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Query returns the account's ledger rows, newest first unless Ascending.
// Topic and source filters join against the catalog; correctness and date
// filters apply to the rows themselves.
func (r *Attempts) Query(ctx context.Context, accountID int64, f AttemptFilters) ([]models.QuestionAttempt, error) {
	q := r.db.WithContext(ctx).
		Model(&models.QuestionAttempt{}).
		Where("question_attempts.account_id = ?", accountID)

	if f.Topic != "" || f.Source != "" {
		q = q.Joins("JOIN questions ON questions.id = question_attempts.question_id")
		if f.Topic != "" {
			q = q.Where("questions.topic = ?", f.Topic)
		}
		if f.Source != "" {
			q = q.Where("questions.source = ?", f.Source)
		}
	}
	if f.Correct != nil {
		q = q.Where("question_attempts.is_correct = ?", *f.Correct)
	}
	if f.SessionID != nil {
		q = q.Where("question_attempts.session_id = ?", *f.SessionID)
	}
	if f.From != nil {
		q = q.Where("question_attempts.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("question_attempts.created_at <= ?", *f.To)
	}

	order := "question_attempts.created_at DESC, question_attempts.id DESC"
	if f.Ascending {
		order = "question_attempts.created_at ASC, question_attempts.id ASC"
	}
	q = q.Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var out []models.QuestionAttempt
	err := q.Find(&out).Error
	return out, err
}

// SessionTally counts a session's recorded attempts and how many were correct.
func (r *Attempts) SessionTally(ctx context.Context, sessionID int64) (total, correct int, err error) {
	type tally struct {
		Total   int
		Correct int
	}
	var t tally
	err = r.db.WithContext(ctx).
		Model(&models.QuestionAttempt{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("session_id = ?", sessionID).
		Scan(&t).Error
	return t.Total, t.Correct, err
}

// ReviewSessionTally is SessionTally over the final-review attempt table.
func (r *Attempts) ReviewSessionTally(ctx context.Context, reviewSessionID int64) (total, correct int, err error) {
	type tally struct {
		Total   int
		Correct int
	}
	var t tally
	err = r.db.WithContext(ctx).
		Model(&models.FinalQuizAttempt{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_correct THEN 1 ELSE 0 END), 0) AS correct").
		Where("review_session_id = ?", reviewSessionID).
		Scan(&t).Error
	return t.Total, t.Correct, err
}
