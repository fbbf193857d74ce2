package stats

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/stats Repository

import (
	"context"

	"github.com/KirkDiggler/unplugged/internal/models"
)

// Repository defines the interface for user stats persistence
type Repository interface {
	// GetStats retrieves a user's stats together with their daily history
	GetStats(ctx context.Context, input *GetStatsInput) (*models.UserStats, error)

	// SaveStats persists a user's stats and replaces their daily history
	SaveStats(ctx context.Context, input *SaveStatsInput) error

	// DeleteStats removes a user's stats and history
	DeleteStats(ctx context.Context, input *DeleteStatsInput) error
}
