package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	originKey contextKey = "origin"
)

// WithOrigin adds the resolved message origin to the request context
func WithOrigin(r *http.Request, origin string) *http.Request {
	ctx := context.WithValue(r.Context(), originKey, origin)
	return r.WithContext(ctx)
}

// GetOrigin retrieves the origin from context, returns empty string if not found
func GetOrigin(r *http.Request) string {
	origin, _ := r.Context().Value(originKey).(string)
	return origin
}
