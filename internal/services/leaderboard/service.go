package leaderboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/KirkDiggler/unplugged/internal/models"
	leaderboardRepo "github.com/KirkDiggler/unplugged/internal/repositories/leaderboard"
)

// Config holds configuration for the leaderboard service
type Config struct {
	Repository leaderboardRepo.Repository
}

// GetInput contains parameters for reading the leaderboard
type GetInput struct {
	// UserID is the caller, whose own standing is reported
	UserID string

	// Limit caps the returned entries; zero means all
	Limit int
}

// GetOutput is the ranked leaderboard view
type GetOutput struct {
	Entries []*models.LeaderboardEntry

	// Self is the caller's ranked entry, nil if they have none
	Self *models.LeaderboardEntry
}

// Service reads and writes the global leaderboard
type Service struct {
	repo leaderboardRepo.Repository
}

// New creates a leaderboard service
func New(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	return &Service{
		repo: cfg.Repository,
	}, nil
}

// Build orders entries by points, highest first, breaking ties by user ID, and
// assigns 1-based ranks. The input is not modified.
func Build(entries []*models.LeaderboardEntry) []*models.LeaderboardEntry {
	ranked := make([]*models.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		cp := *e
		ranked = append(ranked, &cp)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	for i, e := range ranked {
		e.Rank = i + 1
	}

	return ranked
}

// Get reads every entry and returns the ranked view
func (s *Service) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	out, err := s.repo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	ranked := Build(out.Entries)

	result := &GetOutput{Entries: ranked}
	if input == nil {
		return result, nil
	}

	for _, e := range ranked {
		if e.UserID == input.UserID {
			result.Self = e
			break
		}
	}

	if input.Limit > 0 && len(ranked) > input.Limit {
		result.Entries = ranked[:input.Limit]
	}

	return result, nil
}

// Publish upserts a user's entry; rank is ignored
func (s *Service) Publish(ctx context.Context, entry *models.LeaderboardEntry) error {
	if entry == nil || entry.UserID == "" {
		return ErrEmptyUserID
	}

	if err := s.repo.UpsertEntry(ctx, &leaderboardRepo.UpsertEntryInput{Entry: entry}); err != nil {
		return fmt.Errorf("failed to publish leaderboard entry: %w", err)
	}

	return nil
}

// Remove deletes a user's entry
func (s *Service) Remove(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	if err := s.repo.DeleteEntry(ctx, &leaderboardRepo.DeleteEntryInput{UserID: userID}); err != nil {
		return fmt.Errorf("failed to remove leaderboard entry: %w", err)
	}

	return nil
}
