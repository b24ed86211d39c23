package repositories

import (
	"context"

	"github.com/google/uuid"

	"dmeditor/internal/domain/models"
)

// DraftRepository persists the final content of editor sessions
type DraftRepository interface {
	// Save upserts the session's draft and bumps its revision.
	// On return draft.Revision holds the stored revision.
	Save(ctx context.Context, draft *models.Draft) error

	// AppendRevision records the full content of one save for audit.
	AppendRevision(ctx context.Context, draft *models.Draft) error

	// Get returns the draft for a session.
	// Returns domain.ErrNotFound if the session never saved.
	Get(ctx context.Context, sessionID uuid.UUID) (*models.Draft, error)
}
