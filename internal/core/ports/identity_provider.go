package ports

import "context"

// CreateAuthUserInput carries the attributes registered with the identity provider.
type CreateAuthUserInput struct {
	Email    string
	FullName string
}

// UpdateAuthUserInput carries the mutable provider-side attributes.
type UpdateAuthUserInput struct {
	ExternalAuthID string
	FullName       string
}

// CompleteChallengeInput answers a NEW_PASSWORD_REQUIRED challenge.
type CompleteChallengeInput struct {
	Email       string
	NewPassword string
	Session     string
}

// AuthResult is the provider-defined authentication outcome, passed through
// verbatim by the core. Either the challenge pair or the token fields are set.
type AuthResult struct {
	ChallengeName string
	Session       string
	AccessToken   string
	IDToken       string
	RefreshToken  string
	ExpiresIn     int
}

// IdentityProvider is the authoritative credential store. All operations may
// fail and may be slow; the core never retries them automatically.
type IdentityProvider interface {
	// CheckExistsByEmail reports whether a provider record exists for the email.
	CheckExistsByEmail(ctx context.Context, email string) (bool, error)
	// CheckExistsByAuthID reports whether a provider record exists for the id.
	CheckExistsByAuthID(ctx context.Context, externalAuthID string) (bool, error)
	// Create registers a new provider user and returns its external auth id.
	Create(ctx context.Context, input CreateAuthUserInput) (string, error)
	// Update changes provider-side attributes (display name).
	Update(ctx context.Context, input UpdateAuthUserInput) error
	// Remove deletes the provider record. Used by the register compensation.
	Remove(ctx context.Context, externalAuthID string) error

	Authenticate(ctx context.Context, email, password string) (*AuthResult, error)
	CompleteNewPasswordChallenge(ctx context.Context, input CompleteChallengeInput) (*AuthResult, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthResult, error)
}
