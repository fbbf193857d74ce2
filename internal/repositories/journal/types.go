package journal

import "github.com/KirkDiggler/unplugged/internal/models"

// SaveEntryInput contains parameters for saving a journal entry
type SaveEntryInput struct {
	UserID string
	Entry  *models.JournalEntry
}

// ListEntriesInput contains parameters for listing journal entries
type ListEntriesInput struct {
	UserID string

	// Limit caps the number of entries returned; zero means all
	Limit int
}

// ListEntriesOutput contains the listed journal entries
type ListEntriesOutput struct {
	Entries []*models.JournalEntry
}

// DeleteAllEntriesInput contains parameters for deleting a user's journal
type DeleteAllEntriesInput struct {
	UserID string
}
