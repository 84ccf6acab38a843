package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"uwlink/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("pet not found")
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Service es el ledger de propiedad: crea mascotas y las hace
// descubribles desde su owner sin asumir transacciones multi-registro.
//
// Protocolo de Create (el orden importa):
//  1. precondición: el owner existe
//  2. insert del pet con OwnerID seteado (un registro, una escritura)
//  3. best-effort: append atómico al cache Owner.Pets
//
// Un abort después del paso 2 deja un pet válido y correctamente
// atribuido; el cache desfasado lo repara Reconcile.
type Service struct {
	repo   Repository
	owners OwnerDirectory
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, owners OwnerDirectory, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		owners: owners,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	Name string
	Type string
}

// CreateResult distingue éxito pleno de éxito degradado.
// CacheUpdateFailed=true => el pet existe y está atribuido vía OwnerID;
// solo falló el append al cache. No se reintenta inline (no bloquear la
// respuesta); lo corrige la reconciliación.
type CreateResult struct {
	Pet               Pet
	CacheUpdateFailed bool
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (CreateResult, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return CreateResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return CreateResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Type) == "" {
		return CreateResult{}, ErrInvalidInput
	}

	// 1) el owner tiene que existir; única precondición
	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return CreateResult{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !ok {
		return CreateResult{}, ErrOwnerNotFound
	}

	// 2) escritura single-record con la atribución incluida
	p := Pet{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Type:      strings.TrimSpace(in.Type),
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// nada quedó persistido; el caller puede reintentar
		return CreateResult{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	// 3) append atómico al cache. Si falla, éxito degradado: el pet ya
	// es válido por el paso 2.
	if err := s.owners.AppendPetAtomic(ctx, ownerID, p.ID); err != nil {
		s.log.Warn("owner pets cache append failed", map[string]any{
			"owner_id": ownerID,
			"pet_id":   p.ID,
			"err":      err.Error(),
		})
		return CreateResult{Pet: p, CacheUpdateFailed: true}, nil
	}

	return CreateResult{Pet: p}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

// ListByOwner consulta por Pet.OwnerID, la fuente de verdad.
// Nunca lee Owner.Pets: el cache puede estar desfasado y se reserva
// para display informativo.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Reconcile recalcula Owner.Pets como exactamente los ids cuyos OwnerID
// matchean, y sobreescribe el cache. Idempotente; seguro de correr
// concurrente con creaciones (una creación durante la pasada puede
// perderse, la siguiente pasada la corrige).
func (s *Service) Reconcile(ctx context.Context, ownerID string) ([]string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrInvalidInput
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}

	if err := s.owners.ReplacePets(ctx, ownerID, ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return ids, nil
}
