package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mshraky3/MEDQUIZ-sub001/internal/models"
)

// Accounts reads the account rows provisioned by the external signup flow.
type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// ByID fetches an account. Returns gorm.ErrRecordNotFound when absent.
func (r *Accounts) ByID(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
