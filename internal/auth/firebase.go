package auth

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Provider verifies sign-ins and deletes identities with Firebase Authentication
type Provider struct {
	client Client
}

// New creates a provider over an auth client
func New(cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Client == nil {
		return nil, ErrNilClient
	}

	return &Provider{
		client: cfg.Client,
	}, nil
}

// NewApp initializes the Firebase app. Without credentials it only works
// against the emulators, which the SDK picks up from the environment.
func NewApp(ctx context.Context, cfg *FirebaseConfig) (*firebase.App, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		decoded, err := base64.StdEncoding.DecodeString(cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadCredentials, err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
		log.Println("Firebase: initializing from inline credentials")
	case cfg.CredentialsFile != "":
		if _, err := os.Stat(cfg.CredentialsFile); err != nil {
			return nil, fmt.Errorf("firebase credentials file %s: %w", cfg.CredentialsFile, err)
		}
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		log.Printf("Firebase: initializing from %s", cfg.CredentialsFile)
	case os.Getenv("FIREBASE_AUTH_EMULATOR_HOST") != "" || os.Getenv("FIRESTORE_EMULATOR_HOST") != "":
		log.Println("Firebase: initializing against the emulators")
	default:
		return nil, ErrNoCredentials
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	return app, nil
}

// NewFromApp creates a provider over the app's auth client
func NewFromApp(ctx context.Context, app *firebase.App) (*Provider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}

	return New(&Config{Client: client})
}

// Verify checks an ID token and extracts the user, display name and sign-in time
func (p *Provider) Verify(ctx context.Context, idToken string) (*Token, error) {
	if idToken == "" {
		return nil, ErrMissingToken
	}

	verified, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	token := &Token{
		UserID: verified.UID,
	}

	if name, ok := verified.Claims["name"].(string); ok {
		token.Name = name
	}

	authTime := verified.AuthTime
	if authTime == 0 {
		if claim, ok := verified.Claims["auth_time"].(float64); ok {
			authTime = int64(claim)
		}
	}
	if authTime > 0 {
		token.AuthTime = time.Unix(authTime, 0)
	}

	return token, nil
}

// DeleteUser removes the user's identity
func (p *Provider) DeleteUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	if err := p.client.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}

	log.Printf("Auth: deleted user %s", userID)
	return nil
}
