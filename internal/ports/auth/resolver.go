package auth

import (
	"context"
	"errors"
)

// Errores de resolución de identidad. El middleware y los handlers
// comparan con errors.Is; la capa HTTP decide el status code.
var (
	ErrMissingCredential = errors.New("auth: missing credential")
	ErrInvalidCredential = errors.New("auth: invalid credential")
	ErrExpiredCredential = errors.New("auth: expired credential")
	ErrNotFound          = errors.New("auth: credential not found")
)

// Resolver resuelve una credencial entrante (token o cookie de sesión)
// a la identidad del owner, o falla. Nunca construye respuestas HTTP.
type Resolver interface {
	Resolve(ctx context.Context, credential string) (Identity, error)
}

// Issuer emite la credencial para un owner recién autenticado.
// En ModeToken devuelve un JWT; en ModeSession el valor opaco de la cookie.
type Issuer interface {
	Issue(ctx context.Context, ownerID string) (string, error)
}

// Revoker invalida una credencial. Idempotente: revocar dos veces no es error.
// Los tokens stateless no son revocables; solo ModeSession lo implementa.
type Revoker interface {
	Revoke(ctx context.Context, credential string) error
}
