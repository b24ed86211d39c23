package handler

import "net/http"

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Health  *HealthHandler
	Session *SessionHandler
	Upload  *UploadHandler
	Widget  *WidgetHandler
}

// RegisterRoutes mounts every endpoint on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Sessions
	mux.HandleFunc("POST /api/sessions", h.Session.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", h.Session.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.Session.CloseSession)
	mux.HandleFunc("POST /api/sessions/{id}/messages", h.Session.PostMessage)
	mux.HandleFunc("POST /api/sessions/{id}/events", h.Session.PostEvent)
	mux.HandleFunc("POST /api/sessions/{id}/paste", h.Session.Paste)
	mux.HandleFunc("POST /api/sessions/{id}/images", h.Session.UploadImage)
	mux.HandleFunc("GET /api/sessions/{id}/stream", h.Session.Stream) // SSE
	mux.HandleFunc("GET /api/sessions/{id}/ws", h.Session.WebSocket)
	mux.HandleFunc("GET /api/sessions/{id}/draft", h.Session.GetDraft)

	// Images
	mux.HandleFunc("POST /api/upload", h.Upload.Upload)
	mux.HandleFunc("POST /api/images/optimize", h.Upload.Optimize)

	// Widgets and markup
	mux.HandleFunc("GET /api/widgets/themes", h.Widget.Themes)
	mux.HandleFunc("POST /api/widgets/{kind}", h.Widget.Render)
	mux.HandleFunc("POST /api/markup/inspect", h.Widget.Inspect)
	mux.HandleFunc("POST /api/markup/clean", h.Widget.Clean)
}
