package challenge

import "github.com/KirkDiggler/unplugged/internal/models"

// ListChallengesInput contains parameters for listing a user's challenges
type ListChallengesInput struct {
	UserID string
}

// ListChallengesOutput contains the user's challenges
type ListChallengesOutput struct {
	Challenges []*models.Challenge
}

// SaveChallengeInput contains parameters for saving a challenge
type SaveChallengeInput struct {
	UserID    string
	Challenge *models.Challenge
}

// DeleteChallengeInput contains parameters for deleting a challenge
type DeleteChallengeInput struct {
	UserID      string
	ChallengeID string
}

// DeleteAllChallengesInput contains parameters for deleting all of a user's challenges
type DeleteAllChallengesInput struct {
	UserID string
}
