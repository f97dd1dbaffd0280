package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"vaulto/internal/core"
)

// ownerHeader identifies the acting user. Authentication proper lives in a
// gateway in front of this service.
const ownerHeader = "X-User-ID"

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondStoreError maps repository errors onto HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrMissingOwner),
		errors.Is(err, core.ErrMissingCategory),
		errors.Is(err, core.ErrNoteTooLong):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func ownerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(ownerHeader)
	if raw == "" {
		return 0, errors.New("missing " + ownerHeader + " header")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + ownerHeader + " header")
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseWindowQuery reads start_date, end_date and period query parameters.
func parseWindowQuery(r *http.Request) (core.Window, error) {
	q := r.URL.Query()
	return core.ParseWindow(q.Get("start_date"), q.Get("end_date"), q.Get("period"), time.Now().UTC())
}

// marshalAndCache renders a report body once and stores it for later hits.
func marshalAndCache(h *Handlers, key string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	h.storeReport(key, body)
	return body, nil
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
