package messaging

import "time"

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneCalm is a quiet, reassuring tone
	ToneCalm MessageTone = "calm"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// Error types understood by GetErrorMessage
const (
	ErrorTypeSessionActive  = "session_active"
	ErrorTypeNoSession      = "no_session"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeInvalidInput   = "invalid_input"
	ErrorTypePremium        = "premium_required"
	ErrorTypeReauthRequired = "reauth_required"
)

// GetMotivationalMessageInput contains parameters for a motivational line
type GetMotivationalMessageInput struct {
	// Elapsed is how long the session has been running
	Elapsed time.Duration

	// Strict is true for a challenge session that fails on interruption
	Strict bool

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetMotivationalMessageOutput contains the motivational line
type GetMotivationalMessageOutput struct {
	Message string
	Tone    MessageTone
}

// GetSessionResultMessageInput contains the outcome of a session
type GetSessionResultMessageInput struct {
	Duration     time.Duration
	PointsEarned int
	Streak       int

	// Failed is true when a strict session was interrupted
	Failed bool
}

// GetSessionResultMessageOutput contains the result message
type GetSessionResultMessageOutput struct {
	Title   string
	Message string
}

// GetChallengeCompletedMessageInput contains the outcome of a challenge completion
type GetChallengeCompletedMessageInput struct {
	Title string
	Bonus int

	// IsPublic is true for a shared challenge
	IsPublic bool

	// FirstCompletion is true when the shared counter moved
	FirstCompletion bool

	UsersCompletedCount int
}

// GetChallengeCompletedMessageOutput contains the completion message
type GetChallengeCompletedMessageOutput struct {
	Title   string
	Message string
}

// GetStreakMessageInput contains the current streak
type GetStreakMessageInput struct {
	Streak int
}

// GetStreakMessageOutput contains the streak comment
type GetStreakMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// ErrorType is one of the ErrorType constants
	ErrorType string

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	Message string
	Tone    MessageTone
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed fixes the random source; zero seeds from the clock
	Seed int64
}
