package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"uwlink/internal/adapters/auth/remote"
	"uwlink/internal/adapters/auth/session"
	"uwlink/internal/adapters/auth/token"
	"uwlink/internal/platform/logger"
	"uwlink/internal/ports/auth"
	"uwlink/internal/router"
)

// @title uwlink API
// @version 1.0
// @description Owners, pets y autenticación.
// @BasePath /
func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	appLog := logger.NewFromEnv()

	opts := router.Options{Log: appLog}

	// La variante de identidad se elige UNA vez acá, no por request.
	mode := auth.Mode(os.Getenv("AUTH_MODE"))
	switch mode {
	case auth.ModeSession:
		a := session.NewAuthority(envDuration("SESSION_TTL", session.DefaultTTL))
		opts.Resolver, opts.Issuer, opts.Revoker = a, a, a
		opts.Mode = auth.ModeSession

	case auth.ModeRemote:
		v := remote.NewVerifier(remote.Config{
			BaseURL: os.Getenv("AUTH_BASE_URL"),
			APIKey:  os.Getenv("AUTH_API_KEY"),
		})
		if !v.IsConfigured() {
			log.Fatal("AUTH_MODE=remote requires AUTH_BASE_URL and AUTH_API_KEY")
		}
		opts.Resolver = v
		opts.Mode = auth.ModeRemote

	case auth.ModeToken:
		a, err := token.NewAuthority(os.Getenv("TOKEN_SECRET"), envDuration("TOKEN_TTL", token.DefaultTTL))
		if err != nil {
			log.Fatalf("AUTH_MODE=token: %v", err)
		}
		opts.Resolver, opts.Issuer = a, a
		opts.Mode = auth.ModeToken

	default:
		// sin AUTH_MODE => modo dev, sin resolver (X-Debug-User-ID)
		appLog.Warn("running in dev auth mode", nil)
	}

	r := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": addr, "auth_mode": string(opts.Mode)})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
