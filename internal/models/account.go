package models

import "time"

// Account rows are provisioned by the external signup/payment flow; this
// service only reads them to validate ownership of sessions and streaks.
type Account struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	Username           string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash       string    `json:"-" gorm:"not null"`
	SubscriptionActive bool      `json:"subscription_active" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
}
