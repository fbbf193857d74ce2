package auth

// AuthError is a sentinel error returned by the auth provider
type AuthError string

func (e AuthError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      AuthError = "config cannot be nil"
	ErrNilClient      AuthError = "auth client cannot be nil"
	ErrMissingToken   AuthError = "missing bearer token"
	ErrInvalidToken   AuthError = "invalid ID token"
	ErrEmptyUserID    AuthError = "user ID cannot be empty"
	ErrNoCredentials  AuthError = "no firebase credentials configured"
	ErrBadCredentials AuthError = "firebase credentials are not valid base64"
)
