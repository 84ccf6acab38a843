package token

import (
	"context"
	"errors"
	"strings"
	"time"

	"uwlink/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 15 * time.Minute

var (
	ErrEmptySecret = errors.New("token: empty signing secret")
)

// Authority emite y verifica bearer tokens firmados (HS256).
// Verificar es una función pura del token + secret: no toca red ni storage,
// por eso escala a verificación concurrente sin sincronización.
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthority(secret string, ttl time.Duration) (*Authority, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authority{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue produce un JWT con {sub: ownerID, iat, exp}. Inmutable una vez emitido.
func (a *Authority) Issue(_ context.Context, ownerID string) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return "", errors.New("token: owner id required")
	}

	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Resolve verifica firma primero (fail closed: cualquier alteración,
// truncamiento o clave equivocada => ErrInvalidCredential) y luego expiry.
func (a *Authority) Resolve(_ context.Context, credential string) (auth.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return auth.Identity{}, auth.ErrMissingCredential
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(credential, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, auth.ErrInvalidCredential
			}
			return a.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Identity{}, auth.ErrExpiredCredential
		}
		return auth.Identity{}, auth.ErrInvalidCredential
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	return auth.Identity{OwnerID: claims.Subject}, nil
}
