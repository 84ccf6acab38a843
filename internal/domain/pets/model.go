package pets

import "time"

// Pet representa un recurso atribuido a exactamente un owner.
//
// OwnerID es la fuente de verdad de la relación de propiedad. Se escribe
// una sola vez, como parte del insert del registro (atómico por
// construcción), y no se reasigna.
type Pet struct {
	ID      string
	Name    string
	Type    string // clasificación libre: "dog", "cat", lo que sea
	OwnerID string

	CreatedAt time.Time
}
