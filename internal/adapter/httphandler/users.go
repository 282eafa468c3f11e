package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/kvshop/internal/core/port"
)

// PUT v1/profile JSON {"name", "phone"} (200 OK, 401 Unauthorized, 403 Forbidden)
//
// Admin only:
// GET v1/admin/users?search=q (200 OK)
// GET v1/admin/users/stats (200 OK)
// POST v1/admin/users JSON (201 Created, 400 Bad request, 409 Conflict)
// GET v1/admin/users/{id} (200 OK, 404 Not found)
// PUT v1/admin/users/{id} JSON (200 OK, 400 Bad request, 404 Not found, 409 Conflict)
// DELETE v1/admin/users/{id} (204 No content, 404 Not found)

type UsersHandler struct {
	users port.UserManager
}

func RegisterUsers(
	mux *http.ServeMux, users port.UserManager, sessions port.SessionManager,
) {
	h := UsersHandler{users}
	mux.HandleFunc("PUT /v1/profile", h.UpdateProfile)

	mux.Handle("GET /v1/admin/users", RequireAdmin(sessions, h.ListUsers))
	mux.Handle("GET /v1/admin/users/stats", RequireAdmin(sessions, h.UserStats))
	mux.Handle("POST /v1/admin/users", RequireAdmin(sessions, h.CreateUser))
	mux.Handle("GET /v1/admin/users/{id}", RequireAdmin(sessions, h.GetUser))
	mux.Handle("PUT /v1/admin/users/{id}", RequireAdmin(sessions, h.UpdateUser))
	mux.Handle("DELETE /v1/admin/users/{id}", RequireAdmin(sessions, h.DeleteUser))
}

func (h UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.UpdateProfile"
	log := slog.With("op", op)

	var req ProfileRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), req.Name, req.Phone)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, u)
}

func (h UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.ListUsers"
	log := slog.With("op", op)

	users := h.users.ListUsers(r.Context(), r.URL.Query().Get("search"))
	writeJSON(w, log, http.StatusOK, nonNil(users))
}

func (h UsersHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.UserStats"
	log := slog.With("op", op)

	s := h.users.UserStats(r.Context())
	writeJSON(w, log, http.StatusOK, UserStatsResponse{
		Total:  s.Total,
		Active: s.Active,
		New:    s.New,
	})
}

func (h UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.CreateUser"
	log := slog.With("op", op)

	var req UserRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	u, err := h.users.CreateUser(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("user created", "userID", u.ID)
	writeJSON(w, log, http.StatusCreated, u)
}

func (h UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.GetUser"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	u, err := h.users.User(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, u)
}

func (h UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.UpdateUser"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	var req UserRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	u, err := h.users.UpdateUser(r.Context(), id, req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, u)
}

func (h UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	const op = "UsersHandler.DeleteUser"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
