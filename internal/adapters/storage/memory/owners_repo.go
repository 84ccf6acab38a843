package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"uwlink/internal/domain/owners"
)

type OwnerRepo struct {
	mu         sync.RWMutex
	byID       map[string]owners.Owner
	byUsername map[string]string
}

func NewOwnerRepo() *OwnerRepo {
	return &OwnerRepo{
		byID:       make(map[string]owners.Owner),
		byUsername: make(map[string]string),
	}
}

func (r *OwnerRepo) Create(ctx context.Context, o owners.Owner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("owner id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("owner already exists")
	}
	if _, taken := r.byUsername[o.Username]; taken {
		return owners.ErrDuplicateUsername
	}

	r.byID[o.ID] = o
	r.byUsername[o.Username] = o.ID
	return nil
}

func (r *OwnerRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return o, nil
}

func (r *OwnerRepo) GetByUsername(ctx context.Context, username string) (owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return owners.Owner{}, owners.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *OwnerRepo) List(ctx context.Context) ([]owners.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]owners.Owner, 0, len(r.byID))
	for _, o := range r.byID {
		out = append(out, o)
	}

	// orden estable por joined_at asc (consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})

	return out, nil
}

// Exists satisface pets.OwnerDirectory.
func (r *OwnerRepo) Exists(ctx context.Context, ownerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[ownerID]
	return ok, nil
}

// AppendPetAtomic agrega petID bajo el lock del repo: equivale al append
// de un solo campo del storage real. Idempotente por set-membership.
func (r *OwnerRepo) AppendPetAtomic(ctx context.Context, ownerID, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[ownerID]
	if !ok {
		return owners.ErrNotFound
	}
	for _, id := range o.Pets {
		if id == petID {
			return nil
		}
	}
	o.Pets = append(o.Pets, petID)
	r.byID[ownerID] = o
	return nil
}

func (r *OwnerRepo) ReplacePets(ctx context.Context, ownerID string, petIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[ownerID]
	if !ok {
		return owners.ErrNotFound
	}
	o.Pets = append([]string{}, petIDs...)
	r.byID[ownerID] = o
	return nil
}
