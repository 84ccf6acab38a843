package auth

// Identity representa la identidad resuelta desde una credencial.
// Un solo claim: el owner autenticado.
type Identity struct {
	OwnerID string
}

// Mode define la variante de autenticación elegida en el deploy.
// Se elige una sola vez al configurar el proceso, no por request.
type Mode string

const (
	ModeToken   Mode = "token"   // bearer JWT, stateless
	ModeSession Mode = "session" // cookie + estado en servidor
	ModeRemote  Mode = "remote"  // verificación delegada a un IAM externo
)

// SessionCookie es el nombre de la cookie usada en ModeSession.
const SessionCookie = "uwlink_session"
