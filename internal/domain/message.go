package domain

import "time"

type Message struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	UserID    int64        `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	User      *UserSummary `json:"user,omitempty"`
}
