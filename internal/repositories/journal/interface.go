package journal

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/journal Repository

import (
	"context"
)

// Repository defines the interface for journal entry persistence
type Repository interface {
	// SaveEntry stores a journal entry
	SaveEntry(ctx context.Context, input *SaveEntryInput) error

	// ListEntries retrieves a user's journal entries, newest first
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)

	// DeleteAllEntries removes every journal entry of a user
	DeleteAllEntries(ctx context.Context, input *DeleteAllEntriesInput) error
}
