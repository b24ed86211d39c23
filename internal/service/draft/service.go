package draft

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"dmeditor/internal/config"
	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/repositories"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/service/markup"
)

// draftService implements the DraftService interface
type draftService struct {
	repo      repositories.DraftRepository
	txManager repositories.TransactionManager
	text      *markup.PlainTextRenderer
	logger    *slog.Logger
	now       func() time.Time
}

// NewDraftService creates a new draft service
func NewDraftService(
	repo repositories.DraftRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DraftService {
	return &draftService{
		repo:      repo,
		txManager: txManager,
		text:      markup.NewPlainTextRenderer(),
		logger:    logger,
		now:       time.Now,
	}
}

// Save stores html as the session's draft and records it as a revision.
// The bound is the Long Text field, not the editor cap: the tracking marker
// on links can push a capped document past MaxHTMLChars.
func (s *draftService) Save(ctx context.Context, sessionID uuid.UUID, html string) (*models.Draft, error) {
	count := utf8.RuneCountInString(html)

	err := validation.Validate(count, validation.Max(config.LongTextFieldLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: draft: %v", domain.ErrValidation, err)
	}
	if sessionID == uuid.Nil {
		return nil, &domain.ValidationError{Message: "session id is required"}
	}

	draft := &models.Draft{
		SessionID: sessionID,
		HTML:      html,
		CharCount: count,
		UpdatedAt: s.now().UTC(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, draft); err != nil {
			return err
		}
		return s.repo.AppendRevision(txCtx, draft)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("draft saved",
		"session_id", sessionID,
		"revision", draft.Revision,
		"char_count", count,
	)
	return draft, nil
}

// Get returns the draft with its plain-text alternative
func (s *draftService) Get(ctx context.Context, sessionID uuid.UUID) (*models.DraftView, error) {
	draft, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	text, err := s.text.Render(draft.HTML)
	if err != nil {
		// the draft itself is still usable
		s.logger.Warn("plain text render failed", "session_id", sessionID, "error", err)
	}

	return &models.DraftView{Draft: *draft, Text: text}, nil
}
