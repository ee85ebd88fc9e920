package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"
)

// AttemptFact is one ledger row joined with its question's catalog tags,
// the unit the mastery aggregator works over.
type AttemptFact struct {
	QuestionID int64
	Topic      string
	Source     string
	IsCorrect  bool
	CreatedAt  time.Time
}

// FactFilters narrows a fact scan. Zero fields are ignored.
type FactFilters struct {
	Topic         string
	Source        string
	From          *time.Time
	To            *time.Time
	IncludeReview bool
}

// Analytics is the read side over both attempt tables.
type Analytics struct {
	db *gorm.DB
}

func NewAnalytics(db *gorm.DB) *Analytics {
	return &Analytics{db: db}
}

// Facts returns the account's attempt history joined with question tags,
// newest first. With IncludeReview, final-review attempts are merged in so
// they feed the same aggregates.
func (r *Analytics) Facts(ctx context.Context, accountID int64, f FactFilters) ([]AttemptFact, error) {
	facts, err := r.scan(ctx, "question_attempts", accountID, f)
	if err != nil {
		return nil, err
	}

	if f.IncludeReview {
		reviewFacts, err := r.scan(ctx, "final_quiz_attempts", accountID, f)
		if err != nil {
			return nil, err
		}
		facts = append(facts, reviewFacts...)
		sort.SliceStable(facts, func(i, j int) bool {
			return facts[i].CreatedAt.After(facts[j].CreatedAt)
		})
	}
	return facts, nil
}

func (r *Analytics) scan(ctx context.Context, table string, accountID int64, f FactFilters) ([]AttemptFact, error) {
	q := r.db.WithContext(ctx).
		Table(table+" AS a").
		Select("a.question_id, q.topic, q.source, a.is_correct, a.created_at").
		Joins("JOIN questions q ON q.id = a.question_id").
		Where("a.account_id = ?", accountID)

	if f.Topic != "" {
		q = q.Where("q.topic = ?", f.Topic)
	}
	if f.Source != "" {
		q = q.Where("q.source = ?", f.Source)
	}
	if f.From != nil {
		q = q.Where("a.created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("a.created_at <= ?", *f.To)
	}

	var out []AttemptFact
	err := q.Order("a.created_at DESC, a.id DESC").Scan(&out).Error
	return out, err
}
