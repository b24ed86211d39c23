package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/repositories"
)

// DraftRepository implements repositories.DraftRepository
type DraftRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

var _ repositories.DraftRepository = (*DraftRepository)(nil)

// NewDraftRepository creates a new draft repository
func NewDraftRepository(config *RepositoryConfig) *DraftRepository {
	return &DraftRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Save upserts the draft, bumping the revision on conflict
func (r *DraftRepository) Save(ctx context.Context, draft *models.Draft) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, html, char_count, revision, created_at, updated_at)
		VALUES ($1, $2, $3, 1, $4, $4)
		ON CONFLICT (session_id) DO UPDATE
		SET html = EXCLUDED.html,
		    char_count = EXCLUDED.char_count,
		    revision = %s.revision + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING revision, created_at, updated_at
	`, r.tables.Drafts, r.tables.Drafts)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		draft.SessionID,
		draft.HTML,
		draft.CharCount,
		draft.UpdatedAt,
	).Scan(&draft.Revision, &draft.CreatedAt, &draft.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	r.logger.Debug("draft saved", "session_id", draft.SessionID, "revision", draft.Revision)
	return nil
}

// AppendRevision records the content of one save
func (r *DraftRepository) AppendRevision(ctx context.Context, draft *models.Draft) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (session_id, revision, html, char_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.DraftRevisions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		draft.SessionID,
		draft.Revision,
		draft.HTML,
		draft.CharCount,
		draft.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("revision %d of %s already recorded: %w", draft.Revision, draft.SessionID, err)
		}
		return fmt.Errorf("append draft revision: %w", err)
	}
	return nil
}

// Get retrieves the draft of a session
func (r *DraftRepository) Get(ctx context.Context, sessionID uuid.UUID) (*models.Draft, error) {
	query := fmt.Sprintf(`
		SELECT session_id, html, char_count, revision, created_at, updated_at
		FROM %s
		WHERE session_id = $1
	`, r.tables.Drafts)

	var d models.Draft
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, sessionID).Scan(
		&d.SessionID,
		&d.HTML,
		&d.CharCount,
		&d.Revision,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("draft %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	return &d, nil
}
