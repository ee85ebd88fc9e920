package models

// Question is one multiple-choice item from the read-mostly catalog.
// CorrectOption holds the designated letter ("A".."D") and is never sent to
// clients; correctness is checked server-side at submission time.
type Question struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	Text          string `json:"text" gorm:"not null"`
	OptionA       string `json:"option_a" gorm:"not null"`
	OptionB       string `json:"option_b" gorm:"not null"`
	OptionC       string `json:"option_c" gorm:"not null"`
	OptionD       string `json:"option_d" gorm:"not null"`
	CorrectOption string `json:"-" gorm:"size:1;not null"`
	Topic         string `json:"topic" gorm:"index;not null"`
	Source        string `json:"source" gorm:"index"`
}

// ValidOption reports whether s is one of the four option letters.
func ValidOption(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}
