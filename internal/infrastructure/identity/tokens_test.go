package identity

import (
	"testing"
	"time"
)

func testIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", "user-identity-service", time.Hour, 720*time.Hour, 15*time.Minute)
}

func TestTokenIssuer_IssueTokens(t *testing.T) {
	issuer := testIssuer()

	set, err := issuer.IssueTokens("auth-123", "a@b.com", "Ana Ruiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.AccessToken == "" || set.IDToken == "" || set.RefreshToken == "" {
		t.Fatal("all three tokens must be minted")
	}
	if set.ExpiresIn != 3600 {
		t.Errorf("expected expiry 3600, got %d", set.ExpiresIn)
	}

	authID, err := issuer.VerifyRefresh(set.RefreshToken)
	if err != nil {
		t.Fatalf("refresh token must verify: %v", err)
	}
	if authID != "auth-123" {
		t.Errorf("refresh subject: got %q", authID)
	}
}

func TestTokenIssuer_SessionRoundTrip(t *testing.T) {
	issuer := testIssuer()

	session, err := issuer.IssueSession("a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	email, err := issuer.VerifySession(session)
	if err != nil {
		t.Fatalf("session must verify: %v", err)
	}
	if email != "a@b.com" {
		t.Errorf("session email: got %q", email)
	}
}

func TestTokenIssuer_RejectsWrongTokenUse(t *testing.T) {
	issuer := testIssuer()

	set, err := issuer.IssueTokens("auth-123", "a@b.com", "Ana Ruiz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An access token presented where a refresh token is expected must fail.
	if _, err := issuer.VerifyRefresh(set.AccessToken); err == nil {
		t.Error("access token must not verify as refresh token")
	}
	if _, err := issuer.VerifySession(set.AccessToken); err == nil {
		t.Error("access token must not verify as session token")
	}
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	session, err := testIssuer().IssueSession("a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := NewTokenIssuer("other-secret", "user-identity-service", time.Hour, time.Hour, time.Hour)
	if _, err := other.VerifySession(session); err == nil {
		t.Error("token signed with a different secret must be rejected")
	}
}

func TestTokenIssuer_RejectsExpiredSession(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "user-identity-service", time.Hour, time.Hour, -time.Minute)

	session, err := issuer.IssueSession("a@b.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := issuer.VerifySession(session); err == nil {
		t.Error("expired session token must be rejected")
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := testIssuer()
	if _, err := issuer.VerifySession("not-a-token"); err == nil {
		t.Error("garbage must be rejected")
	}
	if _, err := issuer.VerifyRefresh(""); err == nil {
		t.Error("empty token must be rejected")
	}
}
