package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"uwlink/internal/domain/owners"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO owners (id, username, password_hash, joined_at, pets)
		VALUES ($1, $2, $3, $4, '{}')
	`,
		o.ID,
		o.Username,
		o.PasswordHash,
		o.JoinedAt,
	)
	if err != nil {
		// unique index sobre username => señal propia, no storage genérico
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return owners.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Owner{}, owners.ErrNotFound
	}

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, joined_at, array_to_string(pets, ',')
		FROM owners
		WHERE id = $1
	`, id))
}

func (r *OwnersRepo) GetByUsername(ctx context.Context, username string) (owners.Owner, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return owners.Owner{}, owners.ErrNotFound
	}

	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, joined_at, array_to_string(pets, ',')
		FROM owners
		WHERE username = $1
	`, username))
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, password_hash, joined_at, array_to_string(pets, ',')
		FROM owners
		ORDER BY joined_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		var o owners.Owner
		var petsCSV string
		if err := rows.Scan(&o.ID, &o.Username, &o.PasswordHash, &o.JoinedAt, &petsCSV); err != nil {
			return nil, err
		}
		o.Pets = splitPets(petsCSV)
		out = append(out, o)
	}

	return out, rows.Err()
}

// Exists satisface pets.OwnerDirectory.
func (r *OwnersRepo) Exists(ctx context.Context, ownerID string) (bool, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return false, nil
	}

	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM owners WHERE id = $1)
	`, ownerID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// AppendPetAtomic hace el append del cache en UN solo statement:
// array_append guardado por el check de membership. Nada de leer la
// lista, appendear en memoria y escribirla de vuelta (lost update).
// Idempotente: si el id ya está, 0 filas afectadas y no es error.
func (r *OwnersRepo) AppendPetAtomic(ctx context.Context, ownerID, petID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE owners
		SET pets = array_append(pets, $2)
		WHERE id = $1
		  AND NOT (pets @> ARRAY[$2]::text[])
	`, ownerID, petID)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		// 0 filas: o el pet ya estaba (ok, idempotente) o el owner no existe
		exists, err := r.Exists(ctx, ownerID)
		if err != nil {
			return err
		}
		if !exists {
			return owners.ErrNotFound
		}
	}
	return nil
}

func (r *OwnersRepo) ReplacePets(ctx context.Context, ownerID string, petIDs []string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE owners
		SET pets = COALESCE(string_to_array(NULLIF($2, ''), ','), '{}')
		WHERE id = $1
	`, ownerID, strings.Join(petIDs, ","))
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) scanOne(row *sql.Row) (owners.Owner, error) {
	var o owners.Owner
	var petsCSV string
	if err := row.Scan(&o.ID, &o.Username, &o.PasswordHash, &o.JoinedAt, &petsCSV); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	o.Pets = splitPets(petsCSV)
	return o, nil
}

// los ids son UUIDs, no contienen comas; el CSV es seguro como transporte
func splitPets(csv string) []string {
	if csv == "" {
		return []string{}
	}
	return strings.Split(csv, ",")
}
