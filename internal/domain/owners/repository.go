package owners

import "context"

type Repository interface {
	// Create persiste un owner nuevo. ErrDuplicateUsername si el username
	// ya existe (constraint de unicidad del storage).
	Create(ctx context.Context, o Owner) error

	GetByID(ctx context.Context, id string) (Owner, error)
	GetByUsername(ctx context.Context, username string) (Owner, error)
	List(ctx context.Context) ([]Owner, error)

	// AppendPetAtomic agrega petID al cache Owner.Pets como operación
	// atómica de un solo campo (set-membership safe). NO es un
	// read-modify-write del documento: dos creaciones concurrentes no
	// pueden pisarse la lista.
	AppendPetAtomic(ctx context.Context, ownerID, petID string) error

	// ReplacePets sobreescribe el cache completo (reconciliación).
	ReplacePets(ctx context.Context, ownerID string, petIDs []string) error
}
