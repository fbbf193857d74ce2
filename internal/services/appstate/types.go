package appstate

//go:generate mockgen -package=mocks -destination=mocks/mock_dependencies.go github.com/KirkDiggler/unplugged/internal/services/appstate EntitlementChecker,AccountDeleter

import (
	"context"
	"time"

	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/metrics"
	"github.com/KirkDiggler/unplugged/internal/models"
	challengeRepo "github.com/KirkDiggler/unplugged/internal/repositories/challenge"
	journalRepo "github.com/KirkDiggler/unplugged/internal/repositories/journal"
	leaderboardRepo "github.com/KirkDiggler/unplugged/internal/repositories/leaderboard"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
	statsRepo "github.com/KirkDiggler/unplugged/internal/repositories/stats"
	"github.com/KirkDiggler/unplugged/internal/services/challenge"
	"github.com/KirkDiggler/unplugged/internal/services/leaderboard"
	"github.com/KirkDiggler/unplugged/internal/services/stats"
)

const (
	// DefaultReauthWindow is how recent a sign-in must be to delete an account
	DefaultReauthWindow = 5 * time.Minute

	// DefaultDailyGoalMinutes is the goal given to new users
	DefaultDailyGoalMinutes = 60
)

// EntitlementChecker answers whether a user holds the premium entitlement
type EntitlementChecker interface {
	IsEntitled(ctx context.Context, userID string) (bool, error)
}

// AccountDeleter removes a user's identity from the authentication provider
type AccountDeleter interface {
	DeleteUser(ctx context.Context, userID string) error
}

// Dependencies are shared by every user's Manager
type Dependencies struct {
	StatsRepo       statsRepo.Repository
	ChallengeRepo   challengeRepo.Repository
	JournalRepo     journalRepo.Repository
	PublicStore     publicRepo.Repository
	LeaderboardRepo leaderboardRepo.Repository
	Entitlements    EntitlementChecker
	Accounts        AccountDeleter
	Clock           clock.Clock
	UUIDGenerator   uuid.UUID
	Saver           *Saver
	Metrics         *metrics.Metrics

	// Engine computes days in the users' calendar; nil uses the local one
	Engine *stats.Engine

	// TickInterval is the session UI refresh period
	TickInterval time.Duration

	// ReauthWindow is how recent a sign-in must be to delete an account
	ReauthWindow time.Duration

	// DefaultDailyGoalMinutes is the goal given to users without stats
	DefaultDailyGoalMinutes int
}

// Config holds configuration for one user's Manager
type Config struct {
	UserID   string
	Nickname string

	Dependencies
}

// StartSessionInput contains parameters for starting a session
type StartSessionInput struct {
	// ChallengeID makes the session a strict attempt at that challenge
	ChallengeID string

	// Strict fails the session on losing focus even without a challenge
	Strict bool
}

// StopSessionOutput describes an ended session
type StopSessionOutput struct {
	// Stopped is false when there was no live session
	Stopped bool

	Session  *models.Session
	Duration time.Duration

	// Failed is true for an interrupted strict session; no points were awarded
	Failed bool

	PointsEarned int
	Streak       int

	// JournalStaged is true when a journal prompt is waiting
	JournalStaged bool

	// Challenge is set when the session reached its challenge's duration
	Challenge *CompleteChallengeOutput
}

// SessionStatus is the live view of the session slot
type SessionStatus struct {
	Active      bool
	Session     *models.Session
	Elapsed     time.Duration
	Interrupted bool
}

// StatsOutput is a snapshot of the user's stats
type StatsOutput struct {
	Stats *models.UserStats
	Goal  stats.GoalProgress
}

// CompleteChallengeOutput describes a challenge completion
type CompleteChallengeOutput struct {
	// Found is false when the ID matched no personal or public challenge
	Found bool

	Challenge *models.Challenge
	Bonus     int

	// Public is set for shared challenges when the store answered
	Public *challenge.CompletePublicOutput
}

// PendingJournal is a completed session waiting for reflection
type PendingJournal struct {
	SessionID string
	Duration  time.Duration
}

// LeaderboardOutput is the ranked board
type LeaderboardOutput = leaderboard.GetOutput
