package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"board-api/internal/domain"
)

// ListMessagesParams acota un listado de mensajes.
type ListMessagesParams struct {
	// UserID filtra por dueño cuando no es nil.
	UserID *int64
	Limit  int
	Offset int
}

// MessageRepository define el contrato de persistencia para mensajes.
type MessageRepository interface {
	List(ctx context.Context, params ListMessagesParams) ([]domain.Message, error)
	GetByID(ctx context.Context, id string) (domain.Message, error)
	Create(ctx context.Context, text string, userID int64) (domain.Message, error)
	Update(ctx context.Context, id string, text string) (domain.Message, error)
	Delete(ctx context.Context, id string) error
}

// PgMessageRepository implementa MessageRepository usando pgxpool.
type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) List(ctx context.Context, params ListMessagesParams) ([]domain.Message, error) {
	// El JOIN trae solo id y username del dueño para no inflar el payload.
	const query = `
		SELECT m.id, m.text, m.user_id, m.created_at, m.updated_at,
		       u.id, u.username
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE $1::bigint IS NULL OR m.user_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query,
		params.UserID, ClampLimit(params.Limit), ClampOffset(params.Offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var owner domain.UserSummary
		err := rows.Scan(
			&m.ID, &m.Text, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
			&owner.ID, &owner.Username,
		)
		if err != nil {
			return nil, err
		}
		m.User = &owner
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PgMessageRepository) GetByID(ctx context.Context, id string) (domain.Message, error) {
	const query = `
		SELECT m.id, m.text, m.user_id, m.created_at, m.updated_at,
		       u.id, u.username
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1
	`
	var m domain.Message
	var owner domain.UserSummary
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Text, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
		&owner.ID, &owner.Username,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, ErrNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	m.User = &owner
	return m, nil
}

func (r *PgMessageRepository) Create(ctx context.Context, text string, userID int64) (domain.Message, error) {
	const query = `
		INSERT INTO messages (id, text, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, text, user_id, created_at, updated_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), text, userID).Scan(
		&m.ID, &m.Text, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		// 23503: violacion de clave foranea, el dueño no existe.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Message{}, ErrUserNotFound
		}
		return domain.Message{}, err
	}
	return m, nil
}

func (r *PgMessageRepository) Update(ctx context.Context, id string, text string) (domain.Message, error) {
	const query = `
		UPDATE messages
		SET text = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, text, user_id, created_at, updated_at
	`
	var m domain.Message
	err := r.pool.QueryRow(ctx, query, id, text).Scan(
		&m.ID, &m.Text, &m.UserID, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Message{}, ErrNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (r *PgMessageRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM messages WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
