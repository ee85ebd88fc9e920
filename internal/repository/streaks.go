package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Streaks persists the per-account consecutive-day counters.
type Streaks struct {
	db *gorm.DB
}

func NewStreaks(db *gorm.DB) *Streaks {
	return &Streaks{db: db}
}

// Get returns the account's streak row, or nil when none exists yet.
func (r *Streaks) Get(ctx context.Context, accountID int64) (*models.Streak, error) {
	var s models.Streak
	err := r.db.WithContext(ctx).First(&s, "account_id = ?", accountID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save upserts the streak row.
func (r *Streaks) Save(ctx context.Context, s *models.Streak) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

// All returns every streak row; used by the leaderboard rebuild job.
func (r *Streaks) All(ctx context.Context) ([]models.Streak, error) {
	var out []models.Streak
	err := r.db.WithContext(ctx).Find(&out).Error
	return out, err
}
