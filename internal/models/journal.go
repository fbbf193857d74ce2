package models

import (
	"time"
)

// JournalEntry is a reflection attached to a completed session
type JournalEntry struct {
	// ID is the unique identifier for the entry
	ID string `json:"id"`

	// Date is when the entry was saved
	Date time.Time `json:"date"`

	// Duration is the length of the session in seconds
	Duration float64 `json:"duration"`

	// Thoughts is the free-text reflection
	Thoughts string `json:"thoughts"`
}
