package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"dmeditor/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is limited to config.MaxUploadBodyBytes (a 413 is sent by the
// MaxBytesReader when exceeded).
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
