package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

// GET v1/cart (200 OK)
// PUT v1/cart JSON [line items] (200 OK, 400 Bad request, 507 Insufficient storage)
// DELETE v1/cart (200 OK)
// POST v1/cart/items JSON {"productId", "quantity"} (200 OK, 404 Not found)
// PATCH v1/cart/items/{id} JSON {"delta"} (200 OK, 404 Not found)
// DELETE v1/cart/items/{id} (200 OK, 404 Not found)

type CartHandler struct {
	carts port.CartManager
}

func RegisterCart(mux *http.ServeMux, carts port.CartManager) {
	h := CartHandler{carts}
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("PUT /v1/cart", h.SaveCart)
	mux.HandleFunc("DELETE /v1/cart", h.ClearCart)
	mux.HandleFunc("POST /v1/cart/items", h.AddItem)
	mux.HandleFunc("PATCH /v1/cart/items/{id}", h.UpdateQuantity)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.RemoveItem)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	h.writeCart(w, r, log, h.carts.GetCart(r.Context()))
}

func (h CartHandler) SaveCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.SaveCart"
	log := slog.With("op", op)

	var cart domain.Cart
	if !readJSON(w, r, log, &cart) {
		return
	}
	if err := h.carts.SaveCart(r.Context(), cart); err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r, log, cart)
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.ClearCart"
	log := slog.With("op", op)

	if err := h.carts.ClearCart(r.Context()); err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r, log, domain.Cart{})
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	var req AddItemRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.carts.AddItem(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r, log, cart)
}

func (h CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.UpdateQuantity"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	var req ChangeQuantityRequest
	if !readJSON(w, r, log, &req) {
		return
	}

	cart, err := h.carts.UpdateQuantity(r.Context(), int(id), req.Delta)
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r, log, cart)
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), int(id))
	if err != nil {
		writeError(w, log, err)
		return
	}
	h.writeCart(w, r, log, cart)
}

func (h CartHandler) writeCart(
	w http.ResponseWriter, r *http.Request, log *slog.Logger, cart domain.Cart,
) {
	key := h.carts.CurrentScopeKey(r.Context())
	writeJSON(w, log, http.StatusOK, toCartResponse(key, cart))
}
