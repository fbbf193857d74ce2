package challenge

import (
	"github.com/KirkDiggler/unplugged/internal/common/clock"
	"github.com/KirkDiggler/unplugged/internal/common/uuid"
	"github.com/KirkDiggler/unplugged/internal/models"
	publicRepo "github.com/KirkDiggler/unplugged/internal/repositories/public_challenge"
)

// Config holds configuration for a user's challenge tracker
type Config struct {
	// UserID owns the personal list and is recorded as sharer
	UserID string

	PublicStore   publicRepo.Repository
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
}

// AddPersonalInput contains parameters for creating a personal challenge
type AddPersonalInput struct {
	Title           string
	DurationMinutes int
}

// ShareOutput describes the outcome of sharing a challenge
type ShareOutput struct {
	// Challenge is the updated personal copy
	Challenge *models.Challenge

	// Created is false when a public mirror already existed
	Created bool
}

// CompletePublicOutput describes the outcome of completing a public challenge
type CompletePublicOutput struct {
	// Incremented is true only on the user's first completion
	Incremented bool

	UsersCompletedCount int
}

// OpenOutput is a challenge resolved from a bare ID
type OpenOutput struct {
	Challenge *models.Challenge

	// Personal is true when the user's own copy was found
	Personal bool
}
