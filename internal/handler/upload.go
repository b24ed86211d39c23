package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"dmeditor/internal/config"
	"dmeditor/internal/domain"
	"dmeditor/internal/domain/models"
	"dmeditor/internal/domain/services"
	"dmeditor/internal/httputil"
)

// UploadHandler serves the image upload endpoint and the standalone optimizer
type UploadHandler struct {
	uploads   services.UploadService
	optimizer services.ImageOptimizer
	logger    *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploads services.UploadService, optimizer services.ImageOptimizer, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads:   uploads,
		optimizer: optimizer,
		logger:    logger,
	}
}

// Upload stores a base64 data URL image.
// Errors keep the {"error": "..."} body the editor already parses.
// POST /api/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBodyBytes)

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondUploadError(w, http.StatusRequestEntityTooLarge, "Payload too large")
			return
		}
		httputil.RespondUploadError(w, http.StatusBadRequest, "No input received")
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		httputil.RespondUploadError(w, http.StatusBadRequest, "No input received")
		return
	}

	var req models.UploadRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		httputil.RespondUploadError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	res, err := h.uploads.Upload(r.Context(), &req)
	if err != nil {
		var httpErr domain.HTTPError
		if errors.As(err, &httpErr) {
			httputil.RespondUploadError(w, http.StatusBadRequest, httpErr.Error())
			return
		}
		h.logger.Error("upload failed", "filename", req.Filename, "error", err)
		httputil.RespondUploadError(w, http.StatusInternalServerError, "Failed to write file to disk")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, res)
}

// Optimize runs the image pipeline without storing the result
// POST /api/images/optimize (multipart, field "file")
func (h *UploadHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	data, mimeType, ok := readMultipartImage(w, r)
	if !ok {
		return
	}

	asset, err := h.optimizer.Optimize(r.Context(), data, mimeType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}
