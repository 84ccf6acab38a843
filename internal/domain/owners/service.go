package owners

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"uwlink/internal/platform/credentials"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("owner not found")
	ErrDuplicateUsername = errors.New("username already in use")

	// ErrInvalidCredentials colapsa "username no existe" y "password
	// incorrecto" en una sola señal, para no filtrar existencia de cuentas.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// usernames: 1-64 chars, letras/dígitos/punto/guión bajo, empieza con letra
var usernameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type SignupInput struct {
	Username string
	Password string
}

// Signup crea un owner con el password hasheado. El plaintext no se persiste.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Owner, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(username) > 64 || !usernameRe.MatchString(username) {
		return Owner{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Password) == "" {
		return Owner{}, ErrInvalidInput
	}

	hash, err := credentials.Hash(in.Password)
	if err != nil {
		return Owner{}, err
	}

	o := Owner{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		JoinedAt:     s.now().UTC(),
		Pets:         []string{},
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

// Login verifica credenciales y devuelve el owner autenticado.
// Cualquier mismatch (usuario inexistente o password malo) devuelve
// ErrInvalidCredentials, indistinguibles para el cliente.
func (s *Service) Login(ctx context.Context, username, password string) (Owner, error) {
	o, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Owner{}, ErrInvalidCredentials
		}
		return Owner{}, err
	}

	if !credentials.Verify(password, o.PasswordHash) {
		return Owner{}, ErrInvalidCredentials
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Owner, error) {
	return s.repo.List(ctx)
}
