package httphandler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/kvshop/internal/core/domain"
	"github.com/niksmo/kvshop/internal/core/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodySize = 1 << 20

type errStatus struct {
	err    error
	status int
}

// Ordered from the storage faults to the domain errors. The first match wins.
var errStatuses = []errStatus{
	{store.ErrCapacity, http.StatusInsufficientStorage},
	{store.ErrUnavailable, http.StatusServiceUnavailable},
	{store.ErrSerialization, http.StatusInternalServerError},
	{store.ErrDeserialization, http.StatusInternalServerError},
	{domain.ErrInvalid, http.StatusBadRequest},
	{domain.ErrEmptyCart, http.StatusBadRequest},
	{domain.ErrNotIdentified, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrOutOfStock, http.StatusConflict},
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	for _, es := range errStatuses {
		if errors.Is(err, es.err) {
			status, msg = es.status, es.err.Error()
			break
		}
	}
	if status == http.StatusInsufficientStorage {
		msg = store.QuotaMessage
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Warn("request rejected", "err", err)
	}
	writeJSON(w, log, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		log.Error("failed to encode response", "err", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(dst)
	if err != nil {
		writeJSON(w, log, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON data"})
		log.Warn("failed to parse JSON", "err", err)
		return false
	}
	return true
}

func readBody(w http.ResponseWriter, r *http.Request, log *slog.Logger) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, log, http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		log.Warn("failed to read body", "err", err)
		return nil, false
	}
	return data, true
}

func pathInt(w http.ResponseWriter, r *http.Request, log *slog.Logger, name string) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeJSON(w, log, http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		log.Warn("invalid path value", "name", name, "err", err)
		return 0, false
	}
	return v, true
}
