package models

// UserStats is the per-user bookkeeping singleton
type UserStats struct {
	// DailyStreak is the number of distinct active days in the current week
	DailyStreak int `json:"dailyStreak"`

	// TotalRawTime is the accumulated focused time in seconds
	TotalRawTime float64 `json:"totalRawTime"`

	// TotalPoints is the accumulated score
	TotalPoints int `json:"totalPoints"`

	// DailyGoalMinutes is the user's daily target
	DailyGoalMinutes int `json:"dailyGoalMinutes"`

	// DailyHistory is the rolling window of daily totals; persisted separately
	DailyHistory []DailyRecord `json:"-"`
}

// Clone returns a deep copy of the stats
func (s *UserStats) Clone() *UserStats {
	if s == nil {
		return nil
	}
	cp := *s
	cp.DailyHistory = append([]DailyRecord(nil), s.DailyHistory...)
	return &cp
}
