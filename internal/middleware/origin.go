package middleware

import (
	"log/slog"
	"net/http"
	"net/url"

	"dmeditor/internal/httputil"
)

// Origin resolves the caller's origin and stores it in the request context.
// The Origin header wins; otherwise scheme and host of Referer are used.
// Allow-list checks happen in the session, which drops unknown origins.
func Origin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := requestOrigin(r)
			if origin == "" {
				logger.Debug("request without origin", "path", r.URL.Path, "method", r.Method)
			}
			next.ServeHTTP(w, httputil.WithOrigin(r, origin))
		})
	}
}

func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" && o != "null" {
		return o
	}

	ref := r.Header.Get("Referer")
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
