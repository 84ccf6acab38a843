package remote

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"uwlink/internal/platform/httpclient"
	"uwlink/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("remote: verifier not configured")
)

// Config del verificador remoto. BaseURL y APIKey vienen de env vars
// en quien lo instancie (main/router).
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header para la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Verifier delega la verificación de credenciales a un IAM externo.
// Variante de deploy para cuando este servicio no guarda el secret de firma.
// No emite credenciales: el login vive en el IAM, acá solo se resuelven.
type Verifier struct {
	client       *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewVerifier(cfg Config) *Verifier {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	return &Verifier{
		client:       httpclient.New(cfg.BaseURL, cfg.Timeout),
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}
}

func (v *Verifier) IsConfigured() bool {
	return v != nil && v.client != nil && v.client.BaseURL != "" && v.apiKey != ""
}

// Resolve manda el token al IAM y mapea la respuesta al contrato local:
// 401/403 => inválida, 404 => desconocida, resto no-2xx => upstream caído.
func (v *Verifier) Resolve(ctx context.Context, credential string) (auth.Identity, error) {
	if !v.IsConfigured() {
		return auth.Identity{}, ErrNotConfigured
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return auth.Identity{}, auth.ErrMissingCredential
	}

	var out struct {
		OwnerID string `json:"owner_id"`
	}

	err := v.client.PostJSON(ctx, "/v1/tokens/verify",
		map[string]string{
			v.apiKeyHeader:  v.apiKey,
			"Authorization": "Bearer " + credential,
		},
		map[string]string{"token": credential},
		&out,
	)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return auth.Identity{}, auth.ErrInvalidCredential
			case http.StatusNotFound:
				return auth.Identity{}, auth.ErrNotFound
			}
		}
		return auth.Identity{}, err
	}

	out.OwnerID = strings.TrimSpace(out.OwnerID)
	if out.OwnerID == "" {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	return auth.Identity{OwnerID: out.OwnerID}, nil
}
