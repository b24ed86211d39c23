package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionInfo describes one editor session
type SessionInfo struct {
	ID        uuid.UUID `json:"id"`
	State     string    `json:"state"` // "pending" or "applied"
	Ready     bool      `json:"ready"`
	Busy      bool      `json:"busy"`
	CharCount int       `json:"char_count"`
	CreatedAt time.Time `json:"created_at"`
}
