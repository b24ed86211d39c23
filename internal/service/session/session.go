// Package session implements the host/editor message protocol for one
// editor instance: the initial-content state machine, live updates, the
// final content request and the length guard, with paste and upload
// activity tracked per session instead of in globals.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/service/markup"
)

// State of the initial-content state machine
type State int

const (
	// StatePending: waiting for the later of {first init, editor ready}
	StatePending State = iota
	// StateApplied: initial content applied; init now overwrites directly
	StateApplied
)

func (s State) String() string {
	if s == StateApplied {
		return "applied"
	}
	return "pending"
}

// subscriberBuffer is the per-subscriber queue. A subscriber that falls
// this far behind loses events.
const subscriberBuffer = 64

// Deps are shared by every session of a Manager
type Deps struct {
	Pipelines *markup.Pipelines
	Guard     LengthGuard
	Origins   *OriginPolicy
	Drafts    services.DraftService // optional
	Optimizer services.ImageOptimizer
	Uploads   services.UploadService
	Logger    *slog.Logger
}

// Session is the controller for one editor instance.
// All state changes happen under mu; outbound events are published
// without blocking.
type Session struct {
	id        uuid.UUID
	createdAt time.Time
	deps      *Deps
	logger    *slog.Logger

	mu            sync.Mutex
	state         State
	ready         bool
	pendingInit   *string
	content       string
	pasting       bool
	activeUploads int
	closed        bool
	subscribers   map[int]chan models.Event
	nextSubID     int
}

func newSession(id uuid.UUID, deps *Deps) *Session {
	return &Session{
		id:          id,
		createdAt:   time.Now().UTC(),
		deps:        deps,
		logger:      deps.Logger.With("session_id", id.String()),
		subscribers: make(map[int]chan models.Event),
	}
}

// ID returns the session id
func (s *Session) ID() uuid.UUID { return s.id }

// Info returns a snapshot of the session
func (s *Session) Info() models.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.SessionInfo{
		ID:        s.id,
		State:     s.state.String(),
		Ready:     s.ready,
		Busy:      s.busyLocked(),
		CharCount: utf8.RuneCountInString(s.content),
		CreatedAt: s.createdAt,
	}
}

// State returns the initial-content state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Content returns the current editor content
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content
}

// Subscribe registers for outbound events. The returned func unsubscribes;
// the channel is closed on unsubscribe or when the session closes.
func (s *Session) Subscribe() (<-chan models.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan models.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(c)
		}
	}
}

// Receive handles a host message. Messages from origins outside the
// allow-list are dropped silently and reported as not accepted.
func (s *Session) Receive(ctx context.Context, origin string, msg models.Message) (bool, error) {
	if !s.deps.Origins.Allowed(origin) {
		s.logger.Debug("dropping message from disallowed origin", "origin", origin, "type", msg.Type)
		return false, nil
	}

	switch msg.Type {
	case models.MessageInit:
		return true, s.init(msg.Value)
	case models.MessageRequestContent:
		_, err := s.RequestContent(ctx)
		return err == nil, err
	default:
		s.logger.Debug("ignoring message", "type", msg.Type)
		return false, nil
	}
}

func (s *Session) init(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	if s.state == StateApplied {
		s.logger.Debug("init after initial content, replacing", "length", len(value))
		s.setContentLocked(value)
		return nil
	}

	if s.pendingInit != nil {
		s.logger.Debug("init already queued, ignoring", "length", len(value))
		return nil
	}

	s.pendingInit = &value
	if s.ready {
		s.applyInitialLocked()
	}
	return nil
}

// Ready marks the editor as initialized. A queued init is applied now.
func (s *Session) Ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}
	if s.ready {
		return nil
	}

	s.ready = true
	if s.pendingInit != nil && s.state == StatePending {
		s.applyInitialLocked()
		return nil
	}

	// first counter display
	s.enforceLocked()
	return nil
}

// RequestContent emits exactly one change message and saves it as the
// session draft. A ready editor answers with the final pipeline over the
// current content; otherwise the queued init value goes through the
// fallback pipeline (no link rewriting).
func (s *Session) RequestContent(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", domain.ErrSessionClosed
	}

	var value string
	if s.ready {
		value = s.deps.Pipelines.Final.Run(s.content)
	} else {
		pending := ""
		if s.pendingInit != nil {
			pending = *s.pendingInit
		}
		value = s.deps.Pipelines.Fallback.Run(pending)
	}
	s.sendMessageLocked(models.MessageChange, value)
	s.mu.Unlock()

	if s.deps.Drafts != nil {
		if _, err := s.deps.Drafts.Save(ctx, s.id, value); err != nil {
			// the change message is already out; the draft is best effort
			s.logger.Error("failed to save draft", "error", err)
		}
	}
	return value, nil
}

// Edit records a content mutation reported by the editor
func (s *Session) Edit(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	s.content = value
	s.enforceLocked()
	s.liveUpdateLocked()
	return nil
}

// CleanPaste marks a paste as in flight and returns html cleaned for
// insertion. EndPaste must follow.
func (s *Session) CleanPaste(html string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", domain.ErrSessionClosed
	}

	s.pasting = true
	s.enforceLocked()
	return s.deps.Pipelines.Paste.Run(html), nil
}

// EndPaste clears the paste flag and records the content after the paste
func (s *Session) EndPaste(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	s.pasting = false
	s.content = value
	s.enforceLocked()
	s.liveUpdateLocked()
	return nil
}

// BeginUpload counts an image upload as in flight
func (s *Session) BeginUpload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionClosed
	}

	s.activeUploads++
	s.enforceLocked()
	return nil
}

// EndUpload finishes an upload. The guard re-runs once none are left.
func (s *Session) EndUpload() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeUploads > 0 {
		s.activeUploads--
	}
	if s.activeUploads == 0 && !s.closed {
		s.enforceLocked()
	}
}

// UploadImage optimizes and stores an image inserted into this session.
// Enforcement and live updates are held off until every upload finishes.
func (s *Session) UploadImage(ctx context.Context, data []byte, mimeType string) (*models.UploadResult, error) {
	if err := s.BeginUpload(); err != nil {
		return nil, err
	}
	defer s.EndUpload()

	asset, err := s.deps.Optimizer.Optimize(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}

	res, err := s.deps.Uploads.StoreAsset(ctx, asset)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session image uploaded",
		"url", res.URL,
		"output_type", asset.OutputType,
		"fallback", asset.Fallback,
	)
	return res, nil
}

// Close ends the session and closes every subscriber channel
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}

func (s *Session) busyLocked() bool {
	return s.pasting || s.activeUploads > 0
}

func (s *Session) applyInitialLocked() {
	s.state = StateApplied
	s.logger.Info("initial content applied", "length", len(*s.pendingInit))
	s.setContentLocked(*s.pendingInit)
}

// setContentLocked replaces the content the way the editor's setContent
// does: the editor is told to show it and the guard runs. No liveUpdate.
func (s *Session) setContentLocked(value string) {
	s.content = value
	s.sendNoticeLocked(models.Notice{Type: models.NoticeSetContent, Value: value})
	s.enforceLocked()
}

// enforceLocked publishes the counter and truncates over-cap content.
// One alert per truncation.
func (s *Session) enforceLocked() {
	out, st := s.deps.Guard.Enforce(s.content, s.busyLocked())
	s.sendNoticeLocked(models.Notice{Type: models.NoticeCounter, Status: &st})

	if !st.Truncated {
		return
	}

	s.logger.Warn("content over length cap, truncated", "count", st.Count, "cap", st.Cap)
	s.content = out
	s.sendNoticeLocked(models.Notice{Type: models.NoticeSetContent, Value: out})
	s.sendNoticeLocked(models.Notice{Type: models.NoticeAlert, Value: AlertText()})
}

func (s *Session) liveUpdateLocked() {
	if s.state != StateApplied || s.busyLocked() {
		return
	}
	s.sendMessageLocked(models.MessageLiveUpdate, s.deps.Pipelines.Live.Run(s.content))
}

func (s *Session) sendMessageLocked(t models.MessageType, value string) {
	s.publishLocked(models.Event{Kind: models.EventMessage, Message: &models.Message{Type: t, Value: value}})
}

func (s *Session) sendNoticeLocked(n models.Notice) {
	s.publishLocked(models.Event{Kind: models.EventNotice, Notice: &n})
}

func (s *Session) publishLocked(ev models.Event) {
	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("subscriber queue full, dropping event", "subscriber", id, "kind", ev.Kind)
		}
	}
}
