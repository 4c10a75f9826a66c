package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	token, err := tm.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate returned empty token")
	}

	if !tm.Validate(token) {
		t.Error("freshly issued token should validate")
	}

	userID, err := tm.UserID(token)
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("UserID = %q, want %q", userID, "user-1")
	}
}

func TestTokenExpired(t *testing.T) {
	// Constructed directly so the ttl floor in NewTokenManager does not
	// rescue the negative value.
	tm := &TokenManager{secret: []byte("test-secret"), ttl: -time.Hour}

	token, err := tm.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if tm.Validate(token) {
		t.Error("expired token should not validate")
	}
	if _, err := tm.UserID(token); err == nil {
		t.Error("UserID on expired token should fail")
	}
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	for _, tokenString := range []string{"", "garbage", "not.a.jwt", "a.b.c"} {
		if tm.Validate(tokenString) {
			t.Errorf("Validate(%q) = true, want false", tokenString)
		}
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	token, err := issuer.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if verifier.Validate(token) {
		t.Error("token signed with a different secret should not validate")
	}
}

func TestTokenDefaultTTL(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), 0)

	token, err := tm.Generate("user-1")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !tm.Validate(token) {
		t.Error("token with default ttl should validate")
	}

	claims, err := tm.parse(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < 23*time.Hour || remaining > 25*time.Hour {
		t.Errorf("default expiry %v from now, want about 24h", remaining)
	}
}
