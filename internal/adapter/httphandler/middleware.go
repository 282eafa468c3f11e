package httphandler

import (
	"log/slog"
	"mime"
	"net/http"
	"sync"

	"github.com/niksmo/kvshop/internal/core/port"
)

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// Serialize lets one request at a time through, so every
// read-modify-write of the store runs to completion before the next one.
func Serialize(next http.Handler) http.Handler {
	var mu sync.Mutex
	hf := func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

// RequireAdmin rejects the request unless an admin is logged in.
func RequireAdmin(sessions port.SessionManager, next http.HandlerFunc) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if !sessions.Identity(r.Context()).IsAdmin() {
			log := slog.With("op", "RequireAdmin", "path", r.URL.Path)
			writeJSON(w, log, http.StatusForbidden, ErrorResponse{Error: "admin login required"})
			log.Warn("admin route denied")
			return
		}
		next(w, r)
	}
	return http.HandlerFunc(hf)
}
