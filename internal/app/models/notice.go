package models

import (
	"time"
)

// Notice defines the notice board model based on the 'notices' table
type Notice struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Title     string    `json:"title" db:"title" example:"Term registration opens Monday"`
	Body      string    `json:"body" db:"body"`
	AuthorID  int64     `json:"authorId" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Author is populated on reads when available
	Author *User `json:"author,omitempty"`
}
