package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/kvshop/internal/core/port"
)

// GET v1/session (200 OK)
// POST v1/session/login JSON {"email", "name", "admin"} (200 OK, 400 Bad request)
// POST v1/session/logout (204 No content)

type SessionHandler struct {
	sessions port.SessionManager
	carts    port.CartManager
}

func RegisterSession(
	mux *http.ServeMux, sessions port.SessionManager, carts port.CartManager,
) {
	h := SessionHandler{sessions, carts}
	mux.HandleFunc("GET /v1/session", h.GetSession)
	mux.HandleFunc("POST /v1/session/login", h.Login)
	mux.HandleFunc("POST /v1/session/logout", h.Logout)
}

func (h SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.GetSession"
	log := slog.With("op", op)

	ctx := r.Context()
	resp := toIdentityResponse(h.sessions.Identity(ctx), h.carts.CurrentScopeKey(ctx))
	writeJSON(w, log, http.StatusOK, resp)
}

func (h SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.Login"
	log := slog.With("op", op)

	var req LoginRequest
	if !readJSON(w, r, log, &req) {
		return
	}

	ctx := r.Context()
	id, err := h.sessions.Login(ctx, req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, toIdentityResponse(id, h.carts.CurrentScopeKey(ctx)))
}

func (h SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "SessionHandler.Logout"
	log := slog.With("op", op)

	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
