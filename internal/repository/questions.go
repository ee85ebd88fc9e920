package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Questions is the read-mostly question store. The only write path is the
// idempotent catalog seeder applied at startup.
type Questions struct {
	db *gorm.DB
}

func NewQuestions(db *gorm.DB) *Questions {
	return &Questions{db: db}
}

// RandomIDs draws up to n distinct question ids uniformly at random from the
// whole catalog. The drawn order is the session's fixed sequence; callers
// persist it and never reshuffle.
func (r *Questions) RandomIDs(ctx context.Context, n int) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Order("RANDOM()").
		Limit(n).
		Pluck("id", &ids).Error
	return ids, err
}

// ByID fetches a single question. Returns gorm.ErrRecordNotFound when absent.
func (r *Questions) ByID(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	if err := r.db.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ByIDs fetches the given questions in the order of ids.
func (r *Questions) ByIDs(ctx context.Context, ids []int64) ([]models.Question, error) {
	var qs []models.Question
	if len(ids) == 0 {
		return qs, nil
	}
	if err := r.db.WithContext(ctx).Find(&qs, ids).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]models.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

// Count returns the catalog size.
func (r *Questions) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Count(&n).Error
	return n, err
}

// Seed upserts the catalog file into the questions table. Existing rows are
// updated in place so re-running the seeder after a catalog edit is safe.
func (r *Questions) Seed(ctx context.Context, catalog *models.Catalog) error {
	if len(catalog.Questions) == 0 {
		return nil
	}
	rows := make([]models.Question, 0, len(catalog.Questions))
	for _, cq := range catalog.Questions {
		rows = append(rows, cq.Question())
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}
