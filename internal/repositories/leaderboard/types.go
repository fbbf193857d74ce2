package leaderboard

import "github.com/KirkDiggler/unplugged/internal/models"

// UpsertEntryInput contains parameters for writing a leaderboard entry
type UpsertEntryInput struct {
	Entry *models.LeaderboardEntry
}

// ListEntriesOutput contains all stored leaderboard entries
type ListEntriesOutput struct {
	Entries []*models.LeaderboardEntry
}

// DeleteEntryInput contains parameters for deleting a leaderboard entry
type DeleteEntryInput struct {
	UserID string
}
