package http

import (
	"net/http"
	"strings"
	"time"

	"vaulto/internal/core"
)

type userRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

type userResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

func toUserResponse(u core.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Currency:  u.Currency,
		Timezone:  u.Timezone,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		respondError(w, http.StatusBadRequest, "missing email")
		return
	}
	if req.Currency == "" {
		req.Currency = "EUR"
	}
	if req.Timezone == "" {
		req.Timezone = "UTC"
	}

	created, err := h.catalog.CreateUser(r.Context(), core.User{
		Email:    req.Email,
		Name:     req.Name,
		Currency: req.Currency,
		Timezone: req.Timezone,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(created))
}

// handleGetUser returns the acting user's own profile.
func (h *Handlers) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	user, err := h.catalog.GetUser(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}
