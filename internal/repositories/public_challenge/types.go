package public_challenge

import (
	"errors"

	"github.com/KirkDiggler/unplugged/internal/models"
)

// DefaultListLimit caps list and snapshot sizes when no limit is given
const DefaultListLimit = 50

// ErrPublicChallengeNotFound is returned when no public mirror exists for an ID
var ErrPublicChallengeNotFound = errors.New("public challenge not found")

// GetPublicChallengeInput contains parameters for retrieving a public challenge
type GetPublicChallengeInput struct {
	ChallengeID string
}

// ListPublicChallengesInput contains parameters for listing public challenges
type ListPublicChallengesInput struct {
	Limit int
}

// ListPublicChallengesOutput contains the listed public challenges
type ListPublicChallengesOutput struct {
	Challenges []*models.Challenge
}

// CreateIfAbsentInput contains parameters for sharing a challenge
type CreateIfAbsentInput struct {
	// Challenge is the personal copy being shared; its ID keys the mirror
	Challenge *models.Challenge

	// SharerID is recorded as the first completion
	SharerID string
}

// CreateIfAbsentOutput reports whether a new mirror was written
type CreateIfAbsentOutput struct {
	Created bool
}

// CompleteFirstTimeInput contains parameters for completing a public challenge
type CompleteFirstTimeInput struct {
	ChallengeID string
	UserID      string
}

// CompleteFirstTimeOutput reports the outcome of a completion
type CompleteFirstTimeOutput struct {
	// Incremented is true only for the user's first completion
	Incremented bool

	// UsersCompletedCount is the counter after the operation
	UsersCompletedCount int
}

// DeletePublicChallengeInput contains parameters for deleting a public challenge
type DeletePublicChallengeInput struct {
	ChallengeID string
}

// WatchPublicChallengesInput contains parameters for watching the collection
type WatchPublicChallengesInput struct {
	Limit int
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
