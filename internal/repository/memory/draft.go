// Package memory holds in-process repositories used when no database is
// configured. Contents are lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/repositories"
)

// DraftRepository implements repositories.DraftRepository in memory
type DraftRepository struct {
	mu        sync.RWMutex
	drafts    map[uuid.UUID]models.Draft
	revisions map[uuid.UUID][]models.Draft
}

var _ repositories.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository creates an empty store
func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		drafts:    make(map[uuid.UUID]models.Draft),
		revisions: make(map[uuid.UUID][]models.Draft),
	}
}

func (r *DraftRepository) Save(_ context.Context, draft *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.drafts[draft.SessionID]; ok {
		draft.Revision = existing.Revision + 1
		draft.CreatedAt = existing.CreatedAt
	} else {
		draft.Revision = 1
		draft.CreatedAt = draft.UpdatedAt
	}
	r.drafts[draft.SessionID] = *draft
	return nil
}

func (r *DraftRepository) AppendRevision(_ context.Context, draft *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rev := range r.revisions[draft.SessionID] {
		if rev.Revision == draft.Revision {
			return fmt.Errorf("revision %d of %s already recorded", draft.Revision, draft.SessionID)
		}
	}
	r.revisions[draft.SessionID] = append(r.revisions[draft.SessionID], *draft)
	return nil
}

func (r *DraftRepository) Get(_ context.Context, sessionID uuid.UUID) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drafts[sessionID]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", sessionID, domain.ErrNotFound)
	}
	return &d, nil
}

// Revisions returns the recorded revisions of a session, oldest first
func (r *DraftRepository) Revisions(sessionID uuid.UUID) []models.Draft {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Draft, len(r.revisions[sessionID]))
	copy(out, r.revisions[sessionID])
	return out
}
