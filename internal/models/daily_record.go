package models

import (
	"time"
)

// DayLayout is the ISO date layout used to key daily records
const DayLayout = "2006-01-02"

// DailyRecord holds the focused minutes for one calendar day
type DailyRecord struct {
	// Date is midnight of the day in the user's location
	Date time.Time `json:"date"`

	// TotalMinutes is the sum of whole minutes recorded that day
	TotalMinutes int `json:"totalMinutes"`
}

// Key returns the ISO date the record is stored under
func (r DailyRecord) Key() string {
	return r.Date.Format(DayLayout)
}
