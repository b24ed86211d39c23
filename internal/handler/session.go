package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dmeditor/internal/config"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/handler/sse"
	"dmeditor/internal/httputil"
	"dmeditor/internal/service/session"
)

// SessionHandler exposes editor sessions over HTTP, SSE and WebSocket
type SessionHandler struct {
	manager   *session.Manager
	drafts    services.DraftService
	sseConfig *sse.Config
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	manager *session.Manager,
	drafts services.DraftService,
	sseConfig *sse.Config,
	logger *slog.Logger,
) *SessionHandler {
	if sseConfig == nil {
		sseConfig = sse.DefaultConfig()
	}
	h := &SessionHandler{
		manager:   manager,
		drafts:    drafts,
		sseConfig: sseConfig,
		logger:    logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return manager.Origins().Allowed(r.Header.Get("Origin"))
		},
	}
	return h
}

// PasteRequest is the body of the paste endpoint
type PasteRequest struct {
	HTML string `json:"html"`
}

// frame is one inbound WebSocket frame: a host message or an editor event
type frame struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// CreateSession starts a new editor session
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	httputil.RespondJSON(w, http.StatusCreated, s.Info())
}

// GetSession returns a session snapshot
// GET /api/sessions/{id}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.RespondJSON(w, http.StatusOK, s.Info())
}

// CloseSession ends a session and its streams
// DELETE /api/sessions/{id}
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "Session ID")
	if !ok {
		return
	}

	if err := h.manager.Close(id); err != nil {
		handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostMessage delivers a host message. Messages from origins outside the
// allow-list are dropped and answered with accepted=false.
// POST /api/sessions/{id}/messages
func (h *SessionHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var msg models.Message
	if err := httputil.ParseJSON(w, r, &msg); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accepted, err := s.Receive(r.Context(), httputil.GetOrigin(r), msg)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusAccepted, map[string]bool{"accepted": accepted})
}

// PostEvent records an editor lifecycle event
// POST /api/sessions/{id}/events
func (h *SessionHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var ev models.EditorEvent
	if err := httputil.ParseJSON(w, r, &ev); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := applyEditorEvent(s, ev); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, s.Info())
}

// Paste cleans pasted HTML and marks the paste as in flight until the
// editor posts pasteEnd
// POST /api/sessions/{id}/paste
func (h *SessionHandler) Paste(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PasteRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cleaned, err := s.CleanPaste(req.HTML)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, PasteRequest{HTML: cleaned})
}

// UploadImage optimizes and stores an image dropped into the editor
// POST /api/sessions/{id}/images (multipart, field "file")
func (h *SessionHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	data, mimeType, ok := readMultipartImage(w, r)
	if !ok {
		return
	}

	res, err := s.UploadImage(r.Context(), data, mimeType)
	if err != nil {
		h.logger.Warn("session image upload failed", "session_id", s.ID(), "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"location": res.URL})
}

// GetDraft returns the last final content saved by a session
// GET /api/sessions/{id}/draft
func (h *SessionHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "Session ID")
	if !ok {
		return
	}

	view, err := h.drafts.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}

// Stream sends the session's outbound messages and notices as Server-Sent
// Events until the client goes away or the session closes
// GET /api/sessions/{id}/stream
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	clientID := uuid.New().String()
	logger := h.logger.With("session_id", s.ID(), "client_id", clientID)

	writer := sse.NewStreamWriter(w, flusher)
	if err := writer.WriteComment("connected"); err != nil {
		logger.Warn("initial write failed, connection already dead", "error", err)
		return
	}
	logger.Debug("SSE stream established")

	keepAlive := sse.NewTickerKeepAlive(h.sseConfig.KeepAliveInterval)
	stopped := keepAlive.Start(writer, logger)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return

		case <-stopped:
			return

		case ev, ok := <-events:
			if !ok {
				_ = writer.WriteEvent("close", []byte(`{}`))
				logger.Debug("session closed, ending stream")
				return
			}

			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Error("failed to encode event", "error", err)
				continue
			}
			if err := writer.WriteEvent(string(ev.Kind), payload); err != nil {
				logger.Info("client disconnected during event write", "error", err)
				return
			}
		}
	}
}

// WebSocket carries host messages and editor events in, and the session's
// outbound events out, over one connection. The handshake origin must be
// allow-listed and is used as the origin of every inbound host message.
// GET /api/sessions/{id}/ws
func (h *SessionHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered
		h.logger.Warn("websocket upgrade failed", "session_id", s.ID(), "error", err)
		return
	}
	defer conn.Close()

	origin := r.Header.Get("Origin")
	logger := h.logger.With("session_id", s.ID(), "origin", origin)

	events, unsubscribe := s.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			var f frame
			if err := conn.ReadJSON(&f); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", "error", err)
				}
				return
			}
			if err := dispatchFrame(ctx, s, origin, f); err != nil {
				logger.Warn("websocket frame rejected", "type", f.Type, "error", err)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed")
				_ = conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				logger.Info("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := pathUUID(w, r, "id", "Session ID")
	if !ok {
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		handleError(w, err)
		return nil, false
	}
	return s, true
}

// dispatchFrame routes a WebSocket frame by its type
func dispatchFrame(ctx context.Context, s *session.Session, origin string, f frame) error {
	msg := models.Message{Type: models.MessageType(f.Type), Value: f.Value}
	if msg.IsHostMessage() {
		_, err := s.Receive(ctx, origin, msg)
		return err
	}
	return applyEditorEvent(s, models.EditorEvent{Type: models.EditorEventType(f.Type), Value: f.Value})
}

func applyEditorEvent(s *session.Session, ev models.EditorEvent) error {
	switch ev.Type {
	case models.EditorReady:
		return s.Ready()
	case models.EditorEdit:
		return s.Edit(ev.Value)
	case models.EditorPasteEnd:
		return s.EndPaste(ev.Value)
	default:
		return validationErrorf("unknown editor event %q", ev.Type)
	}
}

// readMultipartImage reads the "file" part of a multipart upload
func readMultipartImage(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxMultipartBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("read upload: %v", err))
		return nil, "", false
	}

	return data, header.Header.Get("Content-Type"), true
}
