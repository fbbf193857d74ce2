package leaderboard

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/leaderboard Repository

import (
	"context"
)

// Repository defines the interface for leaderboard entry persistence
type Repository interface {
	// UpsertEntry writes a user's leaderboard entry
	UpsertEntry(ctx context.Context, input *UpsertEntryInput) error

	// ListEntries retrieves every leaderboard entry, unordered
	ListEntries(ctx context.Context) (*ListEntriesOutput, error)

	// DeleteEntry removes a user's leaderboard entry
	DeleteEntry(ctx context.Context, input *DeleteEntryInput) error
}
