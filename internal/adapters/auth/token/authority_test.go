package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"uwlink/internal/ports/auth"
)

const testSecret = "test-secret-key"

func TestAuthority_IssueResolve_RoundTrip(t *testing.T) {
	a, err := NewAuthority(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewAuthority error: %v", err)
	}

	tok, err := a.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	id, err := a.Resolve(context.Background(), tok)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if id.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", id.OwnerID)
	}
}

func TestAuthority_Resolve_Expired(t *testing.T) {
	a, err := NewAuthority(testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewAuthority error: %v", err)
	}

	issuedAt := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issuedAt }

	tok, err := a.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// justo antes del expiry sigue siendo válido
	a.now = func() time.Time { return issuedAt.Add(15*time.Minute - time.Second) }
	if _, err := a.Resolve(context.Background(), tok); err != nil {
		t.Fatalf("expected valid at expiry boundary, got %v", err)
	}

	// estrictamente después => expirado
	a.now = func() time.Time { return issuedAt.Add(15*time.Minute + 2*time.Second) }
	_, err = a.Resolve(context.Background(), tok)
	if !errors.Is(err, auth.ErrExpiredCredential) {
		t.Fatalf("expected ErrExpiredCredential, got %v", err)
	}
}

func TestAuthority_Resolve_TamperedToken(t *testing.T) {
	a, _ := NewAuthority(testSecret, 15*time.Minute)

	tok, err := a.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	// flip de un bit en el payload => nunca verifica
	b := []byte(tok)
	b[len(b)/2] ^= 0x01
	_, err = a.Resolve(context.Background(), string(b))
	if !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for tampered token, got %v", err)
	}
}

func TestAuthority_Resolve_WrongKey(t *testing.T) {
	a1, _ := NewAuthority(testSecret, 15*time.Minute)
	a2, _ := NewAuthority("another-secret", 15*time.Minute)

	tok, err := a1.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = a2.Resolve(context.Background(), tok)
	if !errors.Is(err, auth.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential with wrong key, got %v", err)
	}
}

func TestAuthority_Resolve_MissingCredential(t *testing.T) {
	a, _ := NewAuthority(testSecret, 15*time.Minute)

	_, err := a.Resolve(context.Background(), "   ")
	if !errors.Is(err, auth.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestNewAuthority_EmptySecret(t *testing.T) {
	if _, err := NewAuthority("  ", 0); err != ErrEmptySecret {
		t.Fatalf("expected ErrEmptySecret, got %v", err)
	}
}
