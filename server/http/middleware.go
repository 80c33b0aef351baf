package http

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger logs one line per request. Wire it via WithMiddleware.
func RequestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		slog.InfoContext(
			r.Context(),
			"request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
