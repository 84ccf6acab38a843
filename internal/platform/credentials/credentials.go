package credentials

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errors.New("credentials: empty password")
)

// Hash aplica bcrypt con salt aleatorio por llamada.
// El plaintext nunca se guarda ni se loguea.
func Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compara password contra un hash bcrypt en tiempo constante.
// Un hash malformado NO es señal de nada: devuelve false, no error.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
