package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token use values carried in the token_use claim. Consumers must check the
// claim so that, say, a refresh token cannot be replayed as an access token.
const (
	tokenUseAccess  = "access"
	tokenUseID      = "id"
	tokenUseRefresh = "refresh"
	tokenUseSession = "session"
)

var errTokenInvalid = errors.New("token invalid")

// TokenIssuer mints and verifies the HS256 tokens handed out by the provider:
// the access/id/refresh triple plus the short-lived challenge session token.
type TokenIssuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	sessionTTL time.Duration
}

func NewTokenIssuer(secret, issuer string, accessTTL, refreshTTL, sessionTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		sessionTTL: sessionTTL,
	}
}

// TokenSet is a freshly minted access/id/refresh triple.
type TokenSet struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int
}

// IssueTokens mints the full triple for an authenticated user.
func (t *TokenIssuer) IssueTokens(authID, email, fullName string) (*TokenSet, error) {
	now := time.Now().UTC()

	access, err := t.sign(jwt.MapClaims{
		"sub":       authID,
		"email":     email,
		"token_use": tokenUseAccess,
		"iss":       t.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(t.accessTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	idToken, err := t.sign(jwt.MapClaims{
		"sub":       authID,
		"email":     email,
		"name":      fullName,
		"token_use": tokenUseID,
		"iss":       t.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(t.accessTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	refresh, err := t.sign(jwt.MapClaims{
		"sub":       authID,
		"token_use": tokenUseRefresh,
		"iss":       t.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(t.refreshTTL).Unix(),
	})
	if err != nil {
		return nil, err
	}

	return &TokenSet{
		AccessToken:  access,
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresIn:    int(t.accessTTL.Seconds()),
	}, nil
}

// IssueSession mints the opaque session token returned with a
// NEW_PASSWORD_REQUIRED challenge. It is bound to the challenged email.
func (t *TokenIssuer) IssueSession(email string) (string, error) {
	now := time.Now().UTC()
	return t.sign(jwt.MapClaims{
		"email":     email,
		"token_use": tokenUseSession,
		"iss":       t.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(t.sessionTTL).Unix(),
	})
}

// VerifySession checks a challenge session token and returns the email it was
// issued for.
func (t *TokenIssuer) VerifySession(token string) (string, error) {
	claims, err := t.verify(token, tokenUseSession)
	if err != nil {
		return "", err
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("%w: session token missing email", errTokenInvalid)
	}
	return email, nil
}

// VerifyRefresh checks a refresh token and returns the auth id it was issued for.
func (t *TokenIssuer) VerifyRefresh(token string) (string, error) {
	claims, err := t.verify(token, tokenUseRefresh)
	if err != nil {
		return "", err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("%w: refresh token missing subject", errTokenInvalid)
	}
	return sub, nil
}

func (t *TokenIssuer) sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) verify(token, wantUse string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, errTokenInvalid
	}
	if use, _ := claims["token_use"].(string); use != wantUse {
		return nil, fmt.Errorf("%w: wrong token use", errTokenInvalid)
	}
	return claims, nil
}
