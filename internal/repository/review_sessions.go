package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// ReviewSessions persists final-review sessions, separate from the general
// session table so review history can be queried on its own.
type ReviewSessions struct {
	db *gorm.DB
}

func NewReviewSessions(db *gorm.DB) *ReviewSessions {
	return &ReviewSessions{db: db}
}

func (r *ReviewSessions) Create(ctx context.Context, s *models.FinalReviewSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// ByID fetches a review session. Returns gorm.ErrRecordNotFound when absent.
func (r *ReviewSessions) ByID(ctx context.Context, id int64) (*models.FinalReviewSession, error) {
	var s models.FinalReviewSession
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// Finish mirrors Sessions.Finish: a compare-and-set on "still active".
func (r *ReviewSessions) Finish(ctx context.Context, id int64, endedAt time.Time, durationSeconds int, avgSeconds float64, correct, total int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.FinalReviewSession{}).
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
