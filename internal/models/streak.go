package models

import "time"

// DayFormat is the canonical calendar-day encoding for streak bookkeeping.
// All callers normalize to UTC before truncating to a day so streaks never
// break on timezone boundaries.
const DayFormat = "2006-01-02"

// Streak is the per-account consecutive-day counter. LastActiveDate stores a
// UTC day in DayFormat; it is mutated at most once per calendar day.
type Streak struct {
	AccountID      int64     `json:"account_id" gorm:"primaryKey"`
	Current        int       `json:"current" gorm:"default:0"`
	Longest        int       `json:"longest" gorm:"default:0"`
	LastActiveDate string    `json:"last_active_date" gorm:"size:10"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UTCDay returns t's calendar day in UTC, encoded with DayFormat.
func UTCDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
