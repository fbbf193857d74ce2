package stats

import "github.com/KirkDiggler/unplugged/internal/models"

// GetStatsInput contains parameters for retrieving stats
type GetStatsInput struct {
	UserID string
}

// SaveStatsInput contains parameters for saving stats
type SaveStatsInput struct {
	UserID string
	Stats  *models.UserStats
}

// DeleteStatsInput contains parameters for deleting stats
type DeleteStatsInput struct {
	UserID string
}
