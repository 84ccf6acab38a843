package owners

import "time"

// Owner representa un titular de cuenta.
//
// Pets es un cache desnormalizado para acelerar lecturas: la fuente de
// verdad de la relación es Pet.OwnerID. El cache puede quedar desfasado
// y nunca se usa para autorizar ni para decidir existencia.
type Owner struct {
	ID           string
	Username     string // único, inmutable después del signup
	PasswordHash string // salida opaca de credentials.Hash
	JoinedAt     time.Time
	Pets         []string
}
