package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Sessions persists plain practice sessions. Completion is a conditional
// single-writer-wins update so concurrent or repeated complete calls cannot
// apply side effects twice.
type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) *Sessions {
	return &Sessions{db: db}
}

func (r *Sessions) Create(ctx context.Context, s *models.QuizSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ByID fetches a session. Returns gorm.ErrRecordNotFound when absent.
func (r *Sessions) ByID(ctx context.Context, id int64) (*models.QuizSession, error) {
	var s models.QuizSession
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Finish sets the completion fields iff the session is still active. The
// returned bool is true when this call won the transition; false means the
// session was already completed and the caller must not re-apply side
// effects.
func (r *Sessions) Finish(ctx context.Context, id int64, endedAt time.Time, durationSeconds int, avgSeconds float64, correct, total int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.QuizSession{}).
		Where("id = ? AND ended_at IS NULL", id).
		Updates(map[string]interface{}{
			"ended_at":                 endedAt,
			"duration_seconds":         durationSeconds,
			"avg_seconds_per_question": avgSeconds,
			"correct_count":            correct,
			"total_count":              total,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RecentCompleted returns the account's completed sessions, newest first.
func (r *Sessions) RecentCompleted(ctx context.Context, accountID int64, limit int) ([]models.QuizSession, error) {
	var out []models.QuizSession
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND ended_at IS NOT NULL", accountID).
		Order("ended_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
