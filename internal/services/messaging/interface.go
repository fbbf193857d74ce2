package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/unplugged/internal/services/messaging Service

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetMotivationalMessage returns a line to show while a session is running
	GetMotivationalMessage(ctx context.Context, input *GetMotivationalMessageInput) (*GetMotivationalMessageOutput, error)

	// GetSessionResultMessage returns the message for a stopped or failed session
	GetSessionResultMessage(ctx context.Context, input *GetSessionResultMessageInput) (*GetSessionResultMessageOutput, error)

	// GetChallengeCompletedMessage returns the message for a completed challenge
	GetChallengeCompletedMessage(ctx context.Context, input *GetChallengeCompletedMessageInput) (*GetChallengeCompletedMessageOutput, error)

	// GetStreakMessage returns a comment on the weekly streak
	GetStreakMessage(ctx context.Context, input *GetStreakMessageInput) (*GetStreakMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}
