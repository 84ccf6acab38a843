package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Pet, error)
}

// OwnerDirectory es el subconjunto del storage de owners que necesita el
// ledger. Interface local para evitar ciclos de imports (owners <-> pets);
// la implementan los mismos adapters que owners.Repository.
type OwnerDirectory interface {
	Exists(ctx context.Context, ownerID string) (bool, error)
	AppendPetAtomic(ctx context.Context, ownerID, petID string) error
	ReplacePets(ctx context.Context, ownerID string, petIDs []string) error
}
