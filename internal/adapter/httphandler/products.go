package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/port"
)

// GET v1/products?category=c&search=s&featured=true (200 OK)
// GET v1/products/{id} (200 OK, 404 Not found)
//
// Admin only:
// POST v1/admin/products JSON (201 Created, 400 Bad request)
// PUT v1/admin/products/{id} JSON (200 OK, 400 Bad request, 404 Not found)
// DELETE v1/admin/products/{id} (204 No content, 404 Not found)
// GET v1/admin/products/export (200 OK)
// POST v1/admin/products/import JSON [products] (200 OK, 400 Bad request)

type ProductsHandler struct {
	catalog port.Catalog
}

func RegisterProducts(
	mux *http.ServeMux, catalog port.Catalog, sessions port.SessionManager,
) {
	h := ProductsHandler{catalog}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)

	mux.Handle("POST /v1/admin/products", RequireAdmin(sessions, h.CreateProduct))
	mux.Handle("PUT /v1/admin/products/{id}", RequireAdmin(sessions, h.UpdateProduct))
	mux.Handle("DELETE /v1/admin/products/{id}", RequireAdmin(sessions, h.DeleteProduct))
	mux.Handle("GET /v1/admin/products/export", RequireAdmin(sessions, h.ExportProducts))
	mux.Handle("POST /v1/admin/products/import", RequireAdmin(sessions, h.ImportProducts))
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	q := r.URL.Query()
	f := domain.ProductFilter{
		Category:     q.Get("category"),
		Search:       q.Get("search"),
		FeaturedOnly: q.Get("featured") == "true",
	}
	ps := h.catalog.ListProducts(r.Context(), f)
	if ps == nil {
		ps = []domain.Product{}
	}
	writeJSON(w, log, http.StatusOK, ps)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	p, err := h.catalog.Product(r.Context(), int(id))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, p)
}

func (h ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.CreateProduct"
	log := slog.With("op", op)

	var req ProductRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	p, err := h.catalog.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("product created", "productID", p.ID)
	writeJSON(w, log, http.StatusCreated, p)
}

func (h ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.UpdateProduct"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if !readJSON(w, r, log, &req) {
		return
	}
	p, err := h.catalog.UpdateProduct(r.Context(), int(id), req.toDomain())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, log, http.StatusOK, p)
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.DeleteProduct"
	log := slog.With("op", op)

	id, ok := pathInt(w, r, log, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), int(id)); err != nil {
		writeError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h ProductsHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ExportProducts"
	log := slog.With("op", op)

	data, err := h.catalog.ExportProducts(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func (h ProductsHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ImportProducts"
	log := slog.With("op", op)

	data, ok := readBody(w, r, log)
	if !ok {
		return
	}
	n, err := h.catalog.ImportProducts(r.Context(), data)
	if err != nil {
		writeError(w, log, err)
		return
	}
	log.Info("products imported", "nProducts", n)
	writeJSON(w, log, http.StatusOK, ImportResponse{Imported: n})
}
