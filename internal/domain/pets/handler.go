package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"uwlink/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})

	// Lecturas y mantenimiento del ledger por owner
	r.Get("/owners/{ownerID}/pets", listOwnerPetsHandler(svc))
	r.Post("/owners/{ownerID}/pets/reconcile", reconcileHandler(svc))
}

type createPetRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type petResponse struct {
	PetID     string    `json:"pet_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`

	// true cuando la creación fue éxito degradado (cache no actualizado)
	CacheStale bool `json:"cache_stale,omitempty"`
}

type reconcileResponse struct {
	OwnerID string   `json:"owner_id"`
	Pets    []string `json:"pets"`
}

// createPetHandler crea una mascota para el owner autenticado.
// Éxito degradado (falló el append al cache) sigue siendo 201: el caller
// ya tiene un pet válido.
// @Summary Crear mascota
// @Accept json
// @Produce json
// @Success 201 {object} petResponse
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetIdentity(r.Context())
		if !ok || id.OwnerID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Create(r.Context(), id.OwnerID, CreateInput{
			Name: req.Name,
			Type: req.Type,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "name and type are required", http.StatusBadRequest)
			case errors.Is(err, ErrOwnerNotFound):
				http.Error(w, "owner not found", http.StatusNotFound)
			case errors.Is(err, ErrStorageUnavailable):
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := toPetResponse(res.Pet)
		out.CacheStale = res.CacheUpdateFailed
		writeJSON(w, http.StatusCreated, out)
	}
}

// @Summary Listar todas las mascotas
// @Produce json
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener mascota por id
// @Produce json
// @Success 200 {object} petResponse
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetIdentity(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// listOwnerPetsHandler responde desde la fuente de verdad (Pet.OwnerID),
// correcto aunque el cache Owner.Pets esté desfasado.
// @Summary Listar mascotas de un owner
// @Produce json
// @Success 200 {array} petResponse
// @Router /owners/{ownerID}/pets [get]
func listOwnerPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetIdentity(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// reconcileHandler repara el cache Owner.Pets. Solo el dueño puede
// gatillarlo; la operación es idempotente así que repetirla es inocuo.
// @Summary Reconciliar cache de mascotas
// @Produce json
// @Success 200 {object} reconcileResponse
// @Router /owners/{ownerID}/pets/reconcile [post]
func reconcileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetIdentity(r.Context())
		if !ok || id.OwnerID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ownerID := chi.URLParam(r, "ownerID")
		if ownerID != id.OwnerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ids, err := svc.Reconcile(r.Context(), ownerID)
		if err != nil {
			if errors.Is(err, ErrStorageUnavailable) {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, reconcileResponse{OwnerID: ownerID, Pets: ids})
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		PetID:     p.ID,
		Name:      p.Name,
		Type:      p.Type,
		OwnerID:   p.OwnerID,
		CreatedAt: p.CreatedAt,
	}
}

// writeJSON está duplicado a propósito en handlers de distintos módulos
// (owners/pets) para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
