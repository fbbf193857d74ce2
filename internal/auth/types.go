package auth

//go:generate mockgen -package=mocks -destination=mocks/mock_verifier.go github.com/KirkDiggler/unplugged/internal/auth TokenVerifier
//go:generate mockgen -package=mocks -destination=mocks/mock_client.go github.com/KirkDiggler/unplugged/internal/auth Client

import (
	"context"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
)

// Token is a verified sign-in
type Token struct {
	UserID string

	// Name is the display name claim, empty when the provider has none
	Name string

	// AuthTime is when the user last entered credentials, not when the token was minted
	AuthTime time.Time
}

// TokenVerifier checks ID tokens presented by clients
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Token, error)
}

// Client is the part of the Firebase Auth client the provider uses
type Client interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	DeleteUser(ctx context.Context, uid string) error
}

// Config holds configuration for the provider
type Config struct {
	Client Client
}

// FirebaseConfig selects the credentials for the Firebase app. CredentialsJSON
// is base64 encoded and wins over CredentialsFile.
type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}
