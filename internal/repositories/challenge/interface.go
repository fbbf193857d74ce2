package challenge

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/challenge Repository

import (
	"context"
)

// Repository defines the interface for personal challenge persistence
type Repository interface {
	// ListChallenges retrieves all of a user's personal challenges, oldest first
	ListChallenges(ctx context.Context, input *ListChallengesInput) (*ListChallengesOutput, error)

	// SaveChallenge upserts one personal challenge
	SaveChallenge(ctx context.Context, input *SaveChallengeInput) error

	// DeleteChallenge removes one personal challenge
	DeleteChallenge(ctx context.Context, input *DeleteChallengeInput) error

	// DeleteAllChallenges removes every personal challenge of a user
	DeleteAllChallenges(ctx context.Context, input *DeleteAllChallengesInput) error
}
