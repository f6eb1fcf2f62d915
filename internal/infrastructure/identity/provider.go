package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/companydev/user-identity-service/internal/core/domain"
	"github.com/companydev/user-identity-service/internal/core/ports"
)

// ChallengeNewPasswordRequired is returned by Authenticate while the account
// still carries its provisioning-time temporary password.
const ChallengeNewPasswordRequired = "NEW_PASSWORD_REQUIRED"

// Provider is the self-hosted identity provider. Credentials live in the
// auth_users table, separate from the user record store, so the two sides of
// the registration saga stay independent failure domains.
type Provider struct {
	pool   *pgxpool.Pool
	tokens *TokenIssuer
	log    zerolog.Logger
}

func NewProvider(pool *pgxpool.Pool, tokens *TokenIssuer, log zerolog.Logger) *Provider {
	return &Provider{pool: pool, tokens: tokens, log: log}
}

type authUser struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	TempPassword bool
}

func (p *Provider) CheckExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM auth_users WHERE email = $1)", email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auth_users exists by email: %w", err)
	}
	return exists, nil
}

func (p *Provider) CheckExistsByAuthID(ctx context.Context, externalAuthID string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM auth_users WHERE id = $1)", externalAuthID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("auth_users exists by id: %w", err)
	}
	return exists, nil
}

// Create provisions an auth user with a generated temporary password and
// returns the new auth id. The account stays in the NEW_PASSWORD_REQUIRED
// state until the first successful password change.
//
// TODO: hand the temporary password to the notification service once one
// exists; today it is only written to the debug log.
func (p *Provider) Create(ctx context.Context, input ports.CreateAuthUserInput) (string, error) {
	tempPassword, err := generateTempPassword()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash temporary password: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err = p.pool.Exec(ctx,
		`INSERT INTO auth_users (id, email, full_name, password_hash, temp_password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, TRUE, $5, $5)`,
		id, input.Email, input.FullName, string(hash), now)
	if err != nil {
		return "", fmt.Errorf("auth_users insert: %w", err)
	}

	p.log.Debug().
		Str("auth_id", id).
		Str("email", input.Email).
		Str("temp_password", tempPassword).
		Msg("auth user provisioned")

	return id, nil
}

func (p *Provider) Update(ctx context.Context, input ports.UpdateAuthUserInput) error {
	tag, err := p.pool.Exec(ctx,
		"UPDATE auth_users SET full_name = $2, updated_at = $3 WHERE id = $1",
		input.ExternalAuthID, input.FullName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("auth_users update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: auth user %s", domain.ErrUserNotFound, input.ExternalAuthID)
	}
	return nil
}

func (p *Provider) Remove(ctx context.Context, externalAuthID string) error {
	if _, err := p.pool.Exec(ctx,
		"DELETE FROM auth_users WHERE id = $1", externalAuthID); err != nil {
		return fmt.Errorf("auth_users delete: %w", err)
	}
	return nil
}

// Authenticate verifies the credentials. Accounts still on their temporary
// password get a NEW_PASSWORD_REQUIRED challenge with a session token instead
// of the token triple.
func (p *Provider) Authenticate(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	user, err := p.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: email %s", domain.ErrInvalidCredentials, email)
	}

	if user.TempPassword {
		session, err := p.tokens.IssueSession(user.Email)
		if err != nil {
			return nil, err
		}
		return &ports.AuthResult{
			ChallengeName: ChallengeNewPasswordRequired,
			Session:       session,
		}, nil
	}

	return p.issueFor(user)
}

// CompleteNewPasswordChallenge replaces the temporary password and returns the
// first real token triple. The session token must match the challenged email.
func (p *Provider) CompleteNewPasswordChallenge(ctx context.Context, input ports.CompleteChallengeInput) (*ports.AuthResult, error) {
	sessionEmail, err := p.tokens.VerifySession(input.Session)
	if err != nil || sessionEmail != input.Email {
		return nil, fmt.Errorf("%w: invalid challenge session", domain.ErrInvalidCredentials)
	}

	user, err := p.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash new password: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		"UPDATE auth_users SET password_hash = $2, temp_password = FALSE, updated_at = $3 WHERE id = $1",
		user.ID, string(hash), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("auth_users set password: %w", err)
	}

	user.TempPassword = false
	return p.issueFor(user)
}

// RefreshTokens exchanges a valid refresh token for a new access/id pair.
// No new refresh token is minted; the presented one stays valid until expiry.
func (p *Provider) RefreshTokens(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	authID, err := p.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: refresh token rejected", domain.ErrInvalidCredentials)
	}

	user, err := p.findByID(ctx, authID)
	if err != nil {
		return nil, err
	}

	set, err := p.tokens.IssueTokens(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		AccessToken: set.AccessToken,
		IDToken:     set.IDToken,
		ExpiresIn:   set.ExpiresIn,
	}, nil
}

func (p *Provider) issueFor(user *authUser) (*ports.AuthResult, error) {
	set, err := p.tokens.IssueTokens(user.ID, user.Email, user.FullName)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		AccessToken:  set.AccessToken,
		IDToken:      set.IDToken,
		RefreshToken: set.RefreshToken,
		ExpiresIn:    set.ExpiresIn,
	}, nil
}

func (p *Provider) findByEmail(ctx context.Context, email string) (*authUser, error) {
	return p.scanOne(p.pool.QueryRow(ctx,
		"SELECT id, email, full_name, password_hash, temp_password FROM auth_users WHERE email = $1", email))
}

func (p *Provider) findByID(ctx context.Context, id string) (*authUser, error) {
	return p.scanOne(p.pool.QueryRow(ctx,
		"SELECT id, email, full_name, password_hash, temp_password FROM auth_users WHERE id = $1", id))
}

func (p *Provider) scanOne(row pgx.Row) (*authUser, error) {
	var user authUser
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.TempPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan auth user: %w", err)
	}
	return &user, nil
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate temporary password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var _ ports.IdentityProvider = (*Provider)(nil)
