package session

import (
	"time"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/models"
)

// DefaultTickInterval is how often a live session publishes its elapsed time
const DefaultTickInterval = time.Second

// Config holds configuration for the session tracker
type Config struct {
	Clock         clock.Clock
	UUIDGenerator uuid.UUID

	// TickInterval is the UI refresh period; zero uses DefaultTickInterval
	TickInterval time.Duration
}

// State is either Idle or Active
type State interface {
	isState()
}

// Idle means no session is live
type Idle struct{}

// Active holds the live session
type Active struct {
	Session *models.Session

	// Interrupted is set when a strict session was backgrounded
	Interrupted bool
}

func (Idle) isState()   {}
func (Active) isState() {}

// StartInput contains parameters for starting a session
type StartInput struct {
	// Strict sessions fail if the app loses focus
	Strict bool

	// ChallengeID is the challenge being attempted, if any
	ChallengeID string
}

// StopOutput describes an ended session
type StopOutput struct {
	Session  *models.Session
	Duration time.Duration

	// Failed is true when a strict session was interrupted
	Failed bool
}
