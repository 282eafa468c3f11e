package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

// POST v1/orders JSON checkout (201 Created, 400 Bad request, 401 Unauthorized, 409 Conflict)
// GET v1/orders?status=Pending (200 OK, 401 Unauthorized)
//
// Admin only:
// GET v1/admin/orders?status=s&search=q (200 OK)
// GET v1/admin/orders/stats (200 OK)
// GET v1/admin/orders/{id} (200 OK, 404 Not found)
// PATCH v1/admin/orders/{id}/status JSON {"status"} (200 OK, 400 Bad request, 404 Not found)
// DELETE v1/admin/orders/{id} (204 No content, 404 Not found)

type OrdersHandler struct {
	orders port.OrderManager
}

func RegisterOrders(
	mux *http.ServeMux, orders port.OrderManager, sessions port.SessionManager,
) {
	h := OrdersHandler{orders}
	mux.HandleFunc("POST /v1/orders", h.PlaceOrder)
	mux.HandleFunc("GET /v1/orders", h.MyOrders)

	mux.Handle("GET /v1/admin/orders", RequireAdmin(sessions, h.ListOrders))
	mux.Handle("GET /v1/admin/orders/stats", RequireAdmin(sessions, h.OrderStats))
	mux.Handle("GET /v1/admin/orders/{id}", RequireAdmin(sessions, h.GetOrder))
	mux.Handle("PATCH /v1/admin/orders/{id}/status", RequireAdmin(sessions, h.UpdateStatus))
	mux.Handle("DELETE /v1/admin/orders/{id}", RequireAdmin(sessions, h.DeleteOrder))
}

func (h OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PlaceOrder"
	log := slog.With("op", op)

	var req CheckoutRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	o, err := h.orders.PlaceOrder(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusCreated, o)
}

func (h OrdersHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.MyOrders"
	log := slog.With("op", op)

	status := domain.OrderStatus(r.URL.Query().Get("status"))
	orders, err := h.orders.MyOrders(r.Context(), status)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, nonNil(orders))
}

func (h OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.ListOrders"
	log := slog.With("op", op)

	q := r.URL.Query()
	orders := h.orders.ListOrders(
		r.Context(), domain.OrderStatus(q.Get("status")), q.Get("search"),
	)
	writeJSON(w, log, http.StatusOK, nonNil(orders))
}

func (h OrdersHandler) OrderStats(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.OrderStats"
	log := slog.With("op", op)

	s := h.orders.OrderStats(r.Context())
	writeJSON(w, log, http.StatusOK, OrderStatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Completed: s.Completed,
		Revenue:   s.Revenue,
	})
}

func (h OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrder"
	log := slog.With("op", op)

	o, err := h.orders.Order(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, o)
}

func (h OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.UpdateStatus"
	log := slog.With("op", op)

	var req StatusRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	o, err := h.orders.UpdateStatus(
		r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status),
	)
	if err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("order status updated", "orderID", o.ID, "status", o.Status)
	writeJSON(w, log, http.StatusOK, o)
}

func (h OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.DeleteOrder"
	log := slog.With("op", op)

	if err := h.orders.DeleteOrder(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
