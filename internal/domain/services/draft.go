package services

import (
	"context"

	"github.com/google/uuid"

	"dmeditor/internal/domain/models"
)

// DraftService persists the final content produced for a session
type DraftService interface {
	// Save stores html as the session's latest draft and records a revision
	Save(ctx context.Context, sessionID uuid.UUID, html string) (*models.Draft, error)

	// Get returns the latest draft with its plain-text alternative
	Get(ctx context.Context, sessionID uuid.UUID) (*models.DraftView, error)
}
