package domain

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Messages lleva la proyeccion acotada que pida cada consulta:
	// el preview de un mensaje en listados, el historial reciente en detalle.
	Messages []Message `json:"messages,omitempty"`
}

// UserSummary es la proyeccion liviana del dueño de un mensaje.
type UserSummary struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}
