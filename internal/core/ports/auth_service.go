package ports

import "context"

// TokensResult is returned once a password challenge has been completed.
type TokensResult struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}

// RefreshResult is returned by RefreshTokens.
type RefreshResult struct {
	AccessToken string
	IDToken     string
	ExpiresIn   int
}

// AuthService defines the authentication operations.
type AuthService interface {
	// Authenticate returns the provider's raw challenge/token result unmodified.
	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	CompleteNewPasswordChallenge(ctx context.Context, input CompleteChallengeInput) (*TokensResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*RefreshResult, error)
}
