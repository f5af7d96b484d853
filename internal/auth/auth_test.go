package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("secret1", hash) {
		t.Error("expected matching password to verify")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("expected mismatched password to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Generate("user-1", "alice", []string{"student", "parent"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Username != "alice" {
		t.Errorf("username = %q, want %q", claims.Username, "alice")
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "student" || claims.Roles[1] != "parent" {
		t.Errorf("roles = %v, want [student parent]", claims.Roles)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("expected expiry in the future")
	}
}

func TestParseExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Generate("user-1", "alice", []string{"student"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := tm.Parse(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, err := issuer.Generate("user-1", "alice", []string{"student"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if _, err := verifier.Parse(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestParseMalformedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	if _, err := tm.Parse("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}
