package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"time"

	"uwlink/internal/ports/auth"
)

const DefaultTTL = 24 * time.Hour

type record struct {
	ownerID   string
	createdAt time.Time
	expiresAt time.Time
}

// Authority mantiene sesiones en memoria del proceso, keyed por un id opaco.
// El store es estado mutable compartido: solo este paquete lo toca.
// Operaciones atómicas por clave; no hay locking cross-session más allá
// del mutex del map (ningún lock se sostiene a través de I/O).
type Authority struct {
	mu   sync.RWMutex
	byID map[string]record

	ttl time.Duration
	now func() time.Time
}

func NewAuthority(ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		byID: make(map[string]record),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Issue crea una sesión y devuelve el valor opaco para la cookie.
// (Login en la terminología clásica; Issue para cumplir auth.Issuer.)
func (a *Authority) Issue(_ context.Context, ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", errors.New("session: owner id required")
	}

	id, err := newSessionID()
	if err != nil {
		return "", err
	}

	now := a.now()
	a.mu.Lock()
	a.byID[id] = record{
		ownerID:   ownerID,
		createdAt: now,
		expiresAt: now.Add(a.ttl),
	}
	a.mu.Unlock()

	return id, nil
}

// Resolve busca la sesión. Seguro bajo lookups concurrentes (read-mostly).
func (a *Authority) Resolve(_ context.Context, credential string) (auth.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return auth.Identity{}, auth.ErrMissingCredential
	}

	a.mu.RLock()
	rec, ok := a.byID[credential]
	a.mu.RUnlock()

	if !ok {
		return auth.Identity{}, auth.ErrNotFound
	}
	if a.now().After(rec.expiresAt) {
		// lazy cleanup: la sesión vencida se elimina al tocarla
		a.mu.Lock()
		delete(a.byID, credential)
		a.mu.Unlock()
		return auth.Identity{}, auth.ErrExpiredCredential
	}

	return auth.Identity{OwnerID: rec.ownerID}, nil
}

// Revoke elimina la sesión. Idempotente: revocar dos veces no es error.
func (a *Authority) Revoke(_ context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil
	}

	a.mu.Lock()
	delete(a.byID, credential)
	a.mu.Unlock()
	return nil
}

// PurgeExpired elimina sesiones vencidas; pensado para un sweep periódico.
func (a *Authority) PurgeExpired() int {
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for id, rec := range a.byID {
		if now.After(rec.expiresAt) {
			delete(a.byID, id)
			n++
		}
	}
	return n
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
