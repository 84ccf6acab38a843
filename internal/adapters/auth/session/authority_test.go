package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"uwlink/internal/ports/auth"
)

func TestAuthority_IssueResolve(t *testing.T) {
	a := NewAuthority(time.Hour)

	id, err := a.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if id == "" {
		t.Fatalf("expected non-empty session id")
	}

	got, err := a.Resolve(context.Background(), id)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.OwnerID != "owner-1" {
		t.Fatalf("expected owner-1, got %q", got.OwnerID)
	}
}

func TestAuthority_Resolve_UnknownSession(t *testing.T) {
	a := NewAuthority(time.Hour)

	_, err := a.Resolve(context.Background(), "nope")
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuthority_Resolve_Expired(t *testing.T) {
	a := NewAuthority(time.Hour)

	start := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	id, err := a.Issue(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	a.now = func() time.Time { return start.Add(time.Hour + time.Minute) }
	_, err = a.Resolve(context.Background(), id)
	if !errors.Is(err, auth.ErrExpiredCredential) {
		t.Fatalf("expected ErrExpiredCredential, got %v", err)
	}

	// la sesión vencida quedó eliminada
	_, err = a.Resolve(context.Background(), id)
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after lazy cleanup, got %v", err)
	}
}

func TestAuthority_Revoke_Idempotent(t *testing.T) {
	a := NewAuthority(time.Hour)

	id, _ := a.Issue(context.Background(), "owner-1")

	if err := a.Revoke(context.Background(), id); err != nil {
		t.Fatalf("Revoke error: %v", err)
	}
	if err := a.Revoke(context.Background(), id); err != nil {
		t.Fatalf("second Revoke must be idempotent, got %v", err)
	}

	_, err := a.Resolve(context.Background(), id)
	if !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestAuthority_ConcurrentAccess(t *testing.T) {
	a := NewAuthority(time.Hour)

	id, _ := a.Issue(context.Background(), "owner-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = a.Issue(context.Background(), "owner-2")
		}()
		go func() {
			defer wg.Done()
			_, _ = a.Resolve(context.Background(), id)
		}()
	}
	wg.Wait()

	if _, err := a.Resolve(context.Background(), id); err != nil {
		t.Fatalf("expected session to survive concurrent traffic, got %v", err)
	}
}

func TestAuthority_PurgeExpired(t *testing.T) {
	a := NewAuthority(time.Hour)

	start := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return start }

	_, _ = a.Issue(context.Background(), "owner-1")
	_, _ = a.Issue(context.Background(), "owner-2")

	a.now = func() time.Time { return start.Add(2 * time.Hour) }
	live, _ := a.Issue(context.Background(), "owner-3")

	if n := a.PurgeExpired(); n != 2 {
		t.Fatalf("expected 2 purged sessions, got %d", n)
	}
	if _, err := a.Resolve(context.Background(), live); err != nil {
		t.Fatalf("expected live session to survive purge, got %v", err)
	}
}
