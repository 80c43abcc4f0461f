package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	v := NewVerifier("super-secret-key", time.Hour)

	token, err := v.Issue("user-123", "alice")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("claims.UserID = %q, want %q", claims.UserID, "user-123")
	}
	if claims.Username != "alice" {
		t.Errorf("claims.Username = %q, want %q", claims.Username, "alice")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	v := NewVerifier("super-secret-key", -time.Minute)

	token, err := v.Issue("u1", "bob")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	_, err = v.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewVerifier("secret-one", time.Hour)
	other := NewVerifier("secret-two", time.Hour)

	token, _ := issuer.Issue("u1", "bob")

	if _, err := other.Verify(token); err == nil {
		t.Fatal("Verify() expected error for wrong secret, got nil")
	}
}

func TestVerifyEmptyToken(t *testing.T) {
	v := NewVerifier("super-secret-key", time.Hour)

	if _, err := v.Verify(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify(\"\") error = %v, want ErrInvalidToken", err)
	}
}
