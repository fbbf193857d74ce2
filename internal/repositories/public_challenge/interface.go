package public_challenge

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/public_challenge Repository

import (
	"context"

	"github.com/KirkDiggler/unplugged/internal/models"
)

// Repository defines the interface for the shared public challenge collection.
// Implementations must make CreateIfAbsent and CompleteFirstTime atomic against
// the backing store, since completions arrive concurrently from many devices.
type Repository interface {
	// GetPublicChallenge retrieves one public challenge by ID
	GetPublicChallenge(ctx context.Context, input *GetPublicChallengeInput) (*models.Challenge, error)

	// ListPublicChallenges retrieves public challenges, newest first
	ListPublicChallenges(ctx context.Context, input *ListPublicChallengesInput) (*ListPublicChallengesOutput, error)

	// CreateIfAbsent creates the public mirror of a challenge unless one already exists
	CreateIfAbsent(ctx context.Context, input *CreateIfAbsentInput) (*CreateIfAbsentOutput, error)

	// CompleteFirstTime records a user's completion and increments the shared
	// counter only if the user had not completed the challenge before
	CompleteFirstTime(ctx context.Context, input *CompleteFirstTimeInput) (*CompleteFirstTimeOutput, error)

	// DeletePublicChallenge removes a public challenge and its completion markers
	DeletePublicChallenge(ctx context.Context, input *DeletePublicChallengeInput) error

	// WatchPublicChallenges streams snapshots of the collection until ctx is done
	WatchPublicChallenges(ctx context.Context, input *WatchPublicChallengesInput) (<-chan []*models.Challenge, error)
}
