package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	username TEXT NOT NULL CHECK (username <> ''),
	email TEXT NOT NULL CHECK (email <> ''),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
	id UUID PRIMARY KEY,
	text TEXT NOT NULL CHECK (text <> ''),
	user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS messages_user_id_created_at_idx
	ON messages (user_id, created_at DESC);
`

const dropDDL = `
DROP TABLE IF EXISTS messages;
DROP TABLE IF EXISTS users;
`

// Sync crea el esquema si no existe. Con force primero borra las tablas,
// equivalente al reseed destructivo de desarrollo. Nunca usar en produccion.
func Sync(ctx context.Context, pool *pgxpool.Pool, force bool) error {
	if force {
		if _, err := pool.Exec(ctx, dropDDL); err != nil {
			return err
		}
	}
	_, err := pool.Exec(ctx, schemaDDL)
	return err
}

// Seed inserta los datos de ejemplo para desarrollo local.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	seed := []struct {
		username string
		email    string
		messages []string
	}{
		{
			username: "rwieruch",
			email:    "rwieruch@email.com",
			messages: []string{
				"Published the Road to learn React",
				"Published also the Road to learn Express + PostgreSQL",
			},
		},
		{
			username: "ddavids",
			email:    "ddavids@email.com",
			messages: []string{
				"Happy to release a complete testing setup",
				"Published a complete React testing guide",
			},
		},
	}

	for _, u := range seed {
		var userID int64
		err := pool.QueryRow(ctx,
			`INSERT INTO users (username, email) VALUES ($1, $2) RETURNING id`,
			u.username, u.email,
		).Scan(&userID)
		if err != nil {
			return err
		}
		for _, text := range u.messages {
			_, err := pool.Exec(ctx,
				`INSERT INTO messages (id, text, user_id) VALUES ($1, $2, $3)`,
				uuid.NewString(), text, userID,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
