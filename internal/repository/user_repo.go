package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"board-api/internal/domain"
)

// ListUsersParams acota un listado de usuarios.
type ListUsersParams struct {
	Limit  int
	Offset int
	// Preview adjunta el mensaje mas reciente de cada usuario.
	Preview bool
}

// UpdateUserParams lleva los campos de una actualizacion parcial.
// Un campo nil conserva el valor previo.
type UpdateUserParams struct {
	Username *string
	Email    *string
}

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	List(ctx context.Context, params ListUsersParams) ([]domain.User, error)
	GetByID(ctx context.Context, id int64, historyLimit int) (domain.User, error)
	Create(ctx context.Context, username, email string) (domain.User, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) List(ctx context.Context, params ListUsersParams) ([]domain.User, error) {
	limit := ClampLimit(params.Limit)
	offset := ClampOffset(params.Offset)

	if !params.Preview {
		return r.listPlain(ctx, limit, offset)
	}
	return r.listWithPreview(ctx, limit, offset)
}

func (r *PgUserRepository) listPlain(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = `
		SELECT id, username, email, created_at, updated_at
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) listWithPreview(ctx context.Context, limit, offset int) ([]domain.User, error) {
	// LATERAL adjunta solo el mensaje mas reciente por usuario; el
	// historial completo queda para el detalle.
	const query = `
		SELECT u.id, u.username, u.email, u.created_at, u.updated_at,
		       m.id, m.text, m.user_id, m.created_at, m.updated_at
		FROM users u
		LEFT JOIN LATERAL (
			SELECT id, text, user_id, created_at, updated_at
			FROM messages
			WHERE user_id = u.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON true
		ORDER BY u.id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		var msgID, msgText *string
		var msgUserID *int64
		var msgCreatedAt, msgUpdatedAt *time.Time

		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
			&msgID, &msgText, &msgUserID, &msgCreatedAt, &msgUpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if msgID != nil {
			u.Messages = []domain.Message{{
				ID:        *msgID,
				Text:      *msgText,
				UserID:    *msgUserID,
				CreatedAt: *msgCreatedAt,
				UpdatedAt: *msgUpdatedAt,
			}}
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64, historyLimit int) (domain.User, error) {
	const query = `
		SELECT id, username, email, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	if limit := ClampHistoryLimit(historyLimit); limit > 0 {
		messages, err := r.recentMessages(ctx, id, limit)
		if err != nil {
			return domain.User{}, err
		}
		u.Messages = messages
	}
	return u, nil
}

func (r *PgUserRepository) recentMessages(ctx context.Context, userID int64, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, text, user_id, created_at, updated_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Text, &m.UserID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PgUserRepository) Create(ctx context.Context, username, email string) (domain.User, error) {
	const query = `
		INSERT INTO users (username, email)
		VALUES ($1, $2)
		RETURNING id, username, email, created_at, updated_at
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, username, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Update(ctx context.Context, id int64, params UpdateUserParams) (domain.User, error) {
	const query = `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    updated_at = now()
		WHERE id = $1
		RETURNING id, username, email, created_at, updated_at
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, id, params.Username, params.Email).Scan(
		&u.ID, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	// El esquema declara ON DELETE CASCADE: los mensajes del usuario
	// caen junto con el.
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
