package challenge

// ChallengeError is a custom error type for challenge-related errors
type ChallengeError string

// Error implements the error interface
func (e ChallengeError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrChallengeNotFound   ChallengeError = "challenge not found"
	ErrInvalidTitle        ChallengeError = "challenge title cannot be empty"
	ErrInvalidDuration     ChallengeError = "challenge duration must be positive"
	ErrPublicCleanupFailed ChallengeError = "failed to remove public challenge"
	ErrNilConfig           ChallengeError = "config cannot be nil"
	ErrNilPublicStore      ChallengeError = "public challenge store cannot be nil"
	ErrNilClock            ChallengeError = "clock cannot be nil"
	ErrNilUUIDGenerator    ChallengeError = "UUID generator cannot be nil"
	ErrEmptyUserID         ChallengeError = "user ID cannot be empty"
)
