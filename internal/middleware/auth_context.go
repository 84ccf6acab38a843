package middleware

import (
	"context"
	"net/http"
	"strings"

	"uwlink/internal/ports/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// AuthContext:
// - Extrae la credencial del request: Bearer token o cookie de sesión.
// - Si resolver != nil => intenta Resolve() y setea la identidad.
// - Si resolver == nil => modo dev: header X-Debug-User-ID setea identidad.
// - Si no hay identidad, el request sigue igual; los handlers deciden 401.
func AuthContext(resolver auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar owner sin resolver
			if resolver == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					ctx := context.WithValue(r.Context(), identityKey, auth.Identity{OwnerID: uid})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			credential := Credential(r)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(r.Context(), credential)
			if err != nil {
				// No cortamos acá para no acoplar; el handler decide 401.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// Credential devuelve la credencial presentada: primero el Bearer token,
// si no hay, el valor de la cookie de sesión. Vacío si no presentó nada.
func Credential(r *http.Request) string {
	if tok := bearerToken(r.Header.Get("Authorization")); tok != "" {
		return tok
	}
	if c, err := r.Cookie(auth.SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
