package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// defaultExpiresIn is used when the identity provider omits token expiry.
const defaultExpiresIn = 3600

// AuthService delegates credential checks to the identity provider and keeps
// the local record in the loop for status gating and domain events.
type AuthService struct {
	reader    ports.UserReader
	provider  ports.IdentityProvider
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewAuthService(
	reader ports.UserReader,
	provider ports.IdentityProvider,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		reader:    reader,
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// Authenticate checks the user exists and is not INACTIVE, then passes the
// provider's challenge/token result through verbatim. PENDING users may
// authenticate — they can be mid password challenge.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	rec, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}

	if user.Status().IsInactive() {
		return nil, fmt.Errorf("%w: user %s", domain.ErrUserNotActive, user.ID())
	}

	result, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", user.ID().String()).
		Str("challenge", result.ChallengeName).
		Msg("authentication delegated to identity provider")

	return result, nil
}

// CompleteNewPasswordChallenge finishes the NEW_PASSWORD_REQUIRED flow. On a
// complete token triple it records the credential rotation on the aggregate
// and publishes the drained events one by one, in order, before returning the
// tokens. A publish failure propagates and the tokens are not returned.
func (s *AuthService) CompleteNewPasswordChallenge(ctx context.Context, input ports.CompleteChallengeInput) (*ports.TokensResult, error) {
	rec, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.CompleteNewPasswordChallenge(ctx, input)
	if err != nil {
		return nil, err
	}

	if result.AccessToken == "" || result.IDToken == "" || result.RefreshToken == "" {
		return nil, fmt.Errorf("%w: incomplete authentication response", domain.ErrInconsistency)
	}

	user, err := domain.ReconstituteUser(recordToSnapshot(rec))
	if err != nil {
		return nil, err
	}
	user.ChangePassword()

	for _, event := range user.PullDomainEvents() {
		messageID, err := s.publisher.Publish(ctx, event.EventName, event.Payload())
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", event.EventName, err)
		}
		s.log.Info().
			Str("event", event.EventName).
			Str("user_id", user.ID().String()).
			Str("message_id", messageID).
			Msg("domain event published")
	}

	expiresIn := result.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	return &ports.TokensResult{
		AccessToken:  result.AccessToken,
		IDToken:      result.IDToken,
		RefreshToken: result.RefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// RefreshTokens is a passthrough to the provider's refresh operation.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	result, err := s.provider.RefreshTokens(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if result.AccessToken == "" || result.IDToken == "" {
		return nil, fmt.Errorf("%w: incomplete authentication response", domain.ErrInconsistency)
	}

	expiresIn := result.ExpiresIn
	if expiresIn == 0 {
		expiresIn = defaultExpiresIn
	}

	return &ports.RefreshResult{
		AccessToken: result.AccessToken,
		IDToken:     result.IDToken,
		ExpiresIn:   expiresIn,
	}, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*ports.UserRecord, error) {
	rec, err := s.reader.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: email %s", domain.ErrUserNotFound, email)
		}
		return nil, err
	}
	return rec, nil
}

var _ ports.AuthService = (*AuthService)(nil)
