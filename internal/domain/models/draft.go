package models

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the last authoritative (change) value produced by a session.
type Draft struct {
	SessionID uuid.UUID `json:"session_id" db:"session_id"`
	HTML      string    `json:"html" db:"html"`
	CharCount int       `json:"char_count" db:"char_count"`
	Revision  int       `json:"revision" db:"revision"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DraftView is the API representation, with a plain-text alternative
type DraftView struct {
	Draft
	Text string `json:"text"`
}
