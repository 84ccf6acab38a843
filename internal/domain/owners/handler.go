package owners

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"uwlink/internal/middleware"
	"uwlink/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta signup/login/logout y lecturas de owners.
// issuer puede ser nil (modo dev sin login real); revoker solo existe
// en ModeSession (los tokens stateless no se revocan).
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.Issuer, revoker auth.Revoker, mode auth.Mode) {
	r.Post("/owners", signupHandler(svc))
	r.Post("/login", loginHandler(svc, issuer, mode))
	r.Post("/logout", logoutHandler(revoker))

	r.Get("/owners", listOwnersHandler(svc))
	r.Get("/owners/{ownerID}", getOwnerHandler(svc))
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ownerResponse struct {
	OwnerID  string    `json:"owner_id"`
	Username string    `json:"username"`
	Pets     []string  `json:"pets"`
	JoinedAt time.Time `json:"joined_at"`
}

type loginResponse struct {
	OwnerID     string `json:"owner_id"`
	AccessToken string `json:"access_token,omitempty"` // solo ModeToken
}

// signupHandler crea la cuenta. No requiere auth.
// @Summary Registrar owner
// @Accept json
// @Produce json
// @Success 201 {object} ownerResponse
// @Router /owners [post]
func signupHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Signup(r.Context(), SignupInput{
			Username: req.Username,
			Password: req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrDuplicateUsername):
				http.Error(w, "username already in use", http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid username or password", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

// loginHandler verifica credenciales y emite la credencial del modo activo:
// ModeToken => access_token en el body; ModeSession => Set-Cookie.
// @Summary Login
// @Accept json
// @Produce json
// @Success 200 {object} loginResponse
// @Router /login [post]
func loginHandler(svc *Service, issuer auth.Issuer, mode auth.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if issuer == nil {
			http.Error(w, "auth not configured", http.StatusServiceUnavailable)
			return
		}

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				http.Error(w, "incorrect username or password", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		cred, err := issuer.Issue(r.Context(), o.ID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := loginResponse{OwnerID: o.ID}
		if mode == auth.ModeSession {
			http.SetCookie(w, &http.Cookie{
				Name:     auth.SessionCookie,
				Value:    cred,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		} else {
			resp.AccessToken = cred
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// logoutHandler revoca la sesión presentada. Idempotente: sin sesión o
// con sesión ya revocada responde 204 igual. En ModeToken es un no-op.
func logoutHandler(revoker auth.Revoker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if revoker != nil {
			if cred := middleware.Credential(r); cred != "" {
				_ = revoker.Revoke(r.Context(), cred)
			}
		}

		// limpiar cookie del cliente
		http.SetCookie(w, &http.Cookie{
			Name:     auth.SessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// listOwnersHandler lista todos los owners. Pensado para explorar la API;
// listar colecciones completas no escala, igual que en el prototipo original.
// @Summary Listar owners
// @Produce json
// @Success 200 {array} ownerResponse
// @Router /owners [get]
func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetIdentity(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener owner por id
// @Produce json
// @Success 200 {object} ownerResponse
// @Router /owners/{ownerID} [get]
func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetIdentity(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "owner not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	pets := o.Pets
	if pets == nil {
		pets = []string{}
	}
	return ownerResponse{
		OwnerID:  o.ID,
		Username: o.Username,
		Pets:     pets,
		JoinedAt: o.JoinedAt,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// (owners/pets) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
