package handler

import (
	"log/slog"
	"net/http"

	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/httputil"
	"dmeditor/internal/service/markup"
)

// WidgetHandler renders widgets and runs markup pipelines on demand
type WidgetHandler struct {
	widgets   services.WidgetService
	pipelines *markup.Pipelines
	logger    *slog.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(widgets services.WidgetService, pipelines *markup.Pipelines, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{
		widgets:   widgets,
		pipelines: pipelines,
		logger:    logger,
	}
}

// RenderRequest is the body of the widget render endpoint.
// Only the field matching the widget kind is read.
type RenderRequest struct {
	Theme   string                `json:"theme,omitempty"`
	CTA     *models.CTAConfig     `json:"cta,omitempty"`
	Divider *models.DividerConfig `json:"divider,omitempty"`
	// Document, when set, receives the footer or header instead of the
	// widget being returned alone
	Document *string `json:"document,omitempty"`
}

// MarkupRequest is the body of the inspect and clean endpoints
type MarkupRequest struct {
	HTML     string `json:"html"`
	Pipeline string `json:"pipeline,omitempty"`
}

// Themes returns footer themes, CTA schemes and color options
// GET /api/widgets/themes
func (h *WidgetHandler) Themes(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.widgets.Catalog())
}

// Render renders one widget
// POST /api/widgets/{kind} where kind is footer, cta, divider or header
func (h *WidgetHandler) Render(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")

	var req RenderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		html string
		err  error
	)
	switch kind {
	case "footer":
		if req.Document != nil {
			html = h.widgets.AppendFooter(*req.Document, req.Theme)
		} else {
			html = h.widgets.Footer(req.Theme)
		}
	case "header":
		if req.Document != nil {
			html = h.widgets.InsertHeader(*req.Document)
		} else {
			html = h.widgets.Header()
		}
	case "cta":
		if req.CTA == nil {
			req.CTA = &models.CTAConfig{}
		}
		html, err = h.widgets.CTA(req.CTA)
	case "divider":
		if req.Divider == nil {
			req.Divider = &models.DividerConfig{}
		}
		html, err = h.widgets.Divider(req.Divider)
	default:
		httputil.RespondError(w, http.StatusNotFound, "unknown widget kind: "+kind)
		return
	}
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Debug("widget rendered", "kind", kind, "length", len(html))
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"kind": kind, "html": html})
}

// Inspect reads widget configuration back out of a document
// POST /api/markup/inspect
func (h *WidgetHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	var req MarkupRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inv, err := h.widgets.Inspect(req.HTML)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, inv)
}

// Clean runs a named pipeline (live, final, fallback, paste) over HTML
// POST /api/markup/clean
func (h *WidgetHandler) Clean(w http.ResponseWriter, r *http.Request) {
	var req MarkupRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, ok := h.pipelines.Lookup(req.Pipeline)
	if !ok {
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "unknown pipeline: "+req.Pipeline,
			map[string]interface{}{"pipelines": h.pipelines.Names()})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"pipeline": p.Name(),
		"steps":    p.StepNames(),
		"html":     p.Run(req.HTML),
	})
}
