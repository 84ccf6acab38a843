package router

import (
	"database/sql"
	"net/http"
	"os"

	_ "uwlink/docs"
	mem "uwlink/internal/adapters/storage/memory"
	pg "uwlink/internal/adapters/storage/postgres"
	"uwlink/internal/domain/owners"
	"uwlink/internal/domain/pets"
	"uwlink/internal/middleware"
	"uwlink/internal/platform/logger"
	"uwlink/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Resolver puede ser nil (modo dev: header X-Debug-User-ID).
	Resolver auth.Resolver

	// Issuer/Revoker según el modo: token emite JWT, session emite cookie
	// y es el único revocable. Pueden ser nil (dev / remote).
	Issuer  auth.Issuer
	Revoker auth.Revoker
	Mode    auth.Mode

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.Resolver))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	var (
		ownerRepo owners.Repository
		ownerDir  pets.OwnerDirectory
		petRepo   pets.Repository
	)

	if db != nil {
		or := pg.NewOwnersRepo(db)
		ownerRepo, ownerDir = or, or
		petRepo = pg.NewPetsRepo(db)
	} else {
		or := mem.NewOwnerRepo()
		ownerRepo, ownerDir = or, or
		petRepo = mem.NewPetRepo()
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownerRepo)
	petsSvc := pets.NewService(petRepo, ownerDir, opts.Log)

	// Rutas por módulo
	owners.RegisterRoutes(r, ownersSvc, opts.Issuer, opts.Revoker, opts.Mode)
	pets.RegisterRoutes(r, petsSvc)

	return r
}
