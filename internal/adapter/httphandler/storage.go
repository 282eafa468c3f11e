package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/niksmo/kvshop/internal/core/port"
)

// GET v1/health (200 OK, 503 Service unavailable)
//
// Admin only:
// DELETE v1/admin/storage (204 No content)

type StorageHandler struct {
	store port.Store
	now   func() time.Time
}

func RegisterStorage(mux *http.ServeMux, s port.Store, sessions port.SessionManager) {
	h := StorageHandler{s, time.Now}
	mux.HandleFunc("GET /v1/health", h.Health)
	mux.Handle("DELETE /v1/admin/storage", RequireAdmin(sessions, h.ClearStorage))
}

func (h StorageHandler) Health(w http.ResponseWriter, r *http.Request) {
	const op = "StorageHandler.Health"
	log := slog.With("op", op)

	resp := HealthResponse{Storage: "available", CheckedAt: h.now()}
	status := http.StatusOK
	if !h.store.IsAvailable(r.Context()) {
		resp.Storage = "unavailable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, log, status, resp)
}

// ClearStorage removes every key of the shop namespace, the session included.
func (h StorageHandler) ClearStorage(w http.ResponseWriter, r *http.Request) {
	const op = "StorageHandler.ClearStorage"
	log := slog.With("op", op)

	if err := h.store.Clear(r.Context()); err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("storage cleared")
	w.WriteHeader(http.StatusNoContent)
}
