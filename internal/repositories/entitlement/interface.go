package entitlement

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/unplugged/internal/repositories/entitlement Repository

import (
	"context"
)

// Repository defines the interface for the premium entitlement store
type Repository interface {
	// IsEntitled reports whether a user holds the premium entitlement
	IsEntitled(ctx context.Context, userID string) (bool, error)

	// Grant gives a user the premium entitlement
	Grant(ctx context.Context, userID string) error

	// Revoke removes a user's premium entitlement
	Revoke(ctx context.Context, userID string) error
}
