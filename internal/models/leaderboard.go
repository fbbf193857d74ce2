package models

// LeaderboardEntry is one user's standing on the global leaderboard
type LeaderboardEntry struct {
	// UserID identifies the user and keys the stored entry
	UserID string `json:"userId"`

	// Nickname is the display name shown on the board
	Nickname string `json:"nickname"`

	// TotalRawTime is the user's focused time in seconds
	TotalRawTime float64 `json:"totalRawTime"`

	// TotalPoints is the user's score
	TotalPoints int `json:"totalPoints"`

	// Rank is derived at read time and never persisted
	Rank int `json:"rank,omitempty"`
}
