package pets

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoDown = errors.New("repo: storage down")

type testPetRepo struct {
	mu   sync.Mutex
	byID map[string]Pet
	fail bool
}

func newTestPetRepo() *testPetRepo {
	return &testPetRepo{byID: map[string]Pet{}}
}

func (r *testPetRepo) Create(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fail {
		return errRepoDown
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testPetRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testPetRepo) List(ctx context.Context) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Pet, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testPetRepo) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type testOwnerDir struct {
	mu         sync.Mutex
	pets       map[string][]string // ownerID -> pet ids (el cache)
	known      map[string]bool
	failAppend bool
}

func newTestOwnerDir(ownerIDs ...string) *testOwnerDir {
	d := &testOwnerDir{
		pets:  map[string][]string{},
		known: map[string]bool{},
	}
	for _, id := range ownerIDs {
		d.known[id] = true
	}
	return d
}

func (d *testOwnerDir) Exists(ctx context.Context, ownerID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.known[ownerID], nil
}

func (d *testOwnerDir) AppendPetAtomic(ctx context.Context, ownerID, petID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.failAppend {
		return errRepoDown
	}
	for _, id := range d.pets[ownerID] {
		if id == petID {
			return nil
		}
	}
	d.pets[ownerID] = append(d.pets[ownerID], petID)
	return nil
}

func (d *testOwnerDir) ReplacePets(ctx context.Context, ownerID string, petIDs []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pets[ownerID] = append([]string{}, petIDs...)
	return nil
}

func (d *testOwnerDir) cache(ownerID string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string{}, d.pets[ownerID]...)
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_OK(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir("owner-1")
	svc := NewService(repo, dir, nil)

	res, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if res.CacheUpdateFailed {
		t.Fatalf("expected full success")
	}
	if res.Pet.OwnerID != "owner-1" {
		t.Fatalf("expected OwnerID owner-1, got %q", res.Pet.OwnerID)
	}

	cache := dir.cache("owner-1")
	if len(cache) != 1 || cache[0] != res.Pet.ID {
		t.Fatalf("expected cache [%s], got %v", res.Pet.ID, cache)
	}
}

func TestService_Create_OwnerNotFound_NoPetWritten(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir() // sin owners
	svc := NewService(repo, dir, nil)

	_, err := svc.Create(context.Background(), "ghost", CreateInput{Name: "Rex", Type: "dog"})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no pet record created, got %d", len(repo.byID))
	}
}

func TestService_Create_PetWriteFails_NoPartialState(t *testing.T) {
	repo := newTestPetRepo()
	repo.fail = true
	dir := newTestOwnerDir("owner-1")
	svc := NewService(repo, dir, nil)

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if len(dir.cache("owner-1")) != 0 {
		t.Fatalf("expected untouched cache after failed pet write")
	}
}

func TestService_Create_CacheAppendFails_DegradedSuccess(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir("owner-1")
	dir.failAppend = true
	svc := NewService(repo, dir, nil)

	res, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"})
	if err != nil {
		t.Fatalf("expected degraded success, got error %v", err)
	}
	if !res.CacheUpdateFailed {
		t.Fatalf("expected CacheUpdateFailed=true")
	}

	// el pet quedó correctamente atribuido vía la fuente de verdad
	items, err := svc.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(items) != 1 || items[0].ID != res.Pet.ID {
		t.Fatalf("expected pet discoverable by OwnerID, got %v", items)
	}
}

func TestService_Create_Concurrent_NoLostPets(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir("owner-1")
	svc := NewService(repo, dir, nil)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"}); err != nil {
				t.Errorf("Create error: %v", err)
			}
		}()
	}
	wg.Wait()

	items, err := svc.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("ListByOwner error: %v", err)
	}
	if len(items) != n {
		t.Fatalf("expected %d pets, got %d (lost updates)", n, len(items))
	}

	// el append atómico tampoco pierde entradas
	if got := len(dir.cache("owner-1")); got != n {
		t.Fatalf("expected %d cached ids, got %d", n, got)
	}
}

func TestService_Reconcile_MatchesSourceOfTruth(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir("owner-1")
	dir.failAppend = true // todas las creaciones quedan con cache desfasado
	svc := NewService(repo, dir, nil)

	want := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		res, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		want = append(want, res.Pet.ID)
	}
	if len(dir.cache("owner-1")) != 0 {
		t.Fatalf("precondition: cache should be stale")
	}

	got, err := svc.Reconcile(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Reconcile error: %v", err)
	}

	sort.Strings(want)
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	cache := dir.cache("owner-1")
	sort.Strings(cache)
	for i := range want {
		if cache[i] != want[i] {
			t.Fatalf("expected cache %v, got %v", want, cache)
		}
	}
}

func TestService_Reconcile_Idempotent(t *testing.T) {
	repo := newTestPetRepo()
	dir := newTestOwnerDir("owner-1")
	svc := NewService(repo, dir, nil)

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Rex", Type: "dog"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	first, err := svc.Reconcile(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Reconcile #1 error: %v", err)
	}
	second, err := svc.Reconcile(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Reconcile #2 error: %v", err)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("expected stable result, got %v vs %v", first, second)
	}
}
