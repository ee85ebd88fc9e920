package models

import "time"

// QuestionAttempt is one answer event in the general ledger. Rows are
// append-only: correctness is derived once at write time against the
// question's stored correct option and never recomputed, so history stays
// stable even if the catalog is edited later. The composite unique index on
// (session, question) absorbs double-submits from network retries.
type QuestionAttempt struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	SessionID        int64     `json:"session_id" gorm:"not null;uniqueIndex:idx_attempts_session_question"`
	QuestionID       int64     `json:"question_id" gorm:"not null;uniqueIndex:idx_attempts_session_question;index"`
	AccountID        int64     `json:"account_id" gorm:"index;not null"`
	SelectedOption   string    `json:"selected_option" gorm:"size:1;not null"`
	CorrectOption    string    `json:"correct_option" gorm:"size:1;not null"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null"`
	TimeTakenSeconds float64   `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}

// FinalQuizAttempt mirrors QuestionAttempt but belongs to a review session.
// It is kept in its own table so review scoring stays independent of the
// general mastery statistics unless policy says otherwise.
type FinalQuizAttempt struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	ReviewSessionID  int64     `json:"review_session_id" gorm:"not null;uniqueIndex:idx_final_attempts_session_question"`
	QuestionID       int64     `json:"question_id" gorm:"not null;uniqueIndex:idx_final_attempts_session_question;index"`
	AccountID        int64     `json:"account_id" gorm:"index;not null"`
	SelectedOption   string    `json:"selected_option" gorm:"size:1;not null"`
	CorrectOption    string    `json:"correct_option" gorm:"size:1;not null"`
	IsCorrect        bool      `json:"is_correct" gorm:"not null"`
	TimeTakenSeconds float64   `json:"time_taken_seconds"`
	CreatedAt        time.Time `json:"created_at"`
}
