package http

import (
	"net/http"

	"vaulto/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type categoryResponse struct {
	ID     int64  `json:"id"`
	UserID *int64 `json:"user_id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	System bool   `json:"system"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{
		ID:     c.ID,
		UserID: c.UserID,
		Name:   c.Name,
		Type:   string(c.Type),
		Icon:   c.Icon,
		Color:  c.Color,
		System: c.UserID == nil,
	}
}

func (h *Handlers) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	categories, err := h.catalog.ListCategories(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := core.Category{
		UserID: &userID,
		Name:   req.Name,
		Type:   core.TransactionType(req.Type),
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := category.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.catalog.CreateCategory(r.Context(), category)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (h *Handlers) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := core.Category{
		ID:     id,
		UserID: &userID,
		Name:   req.Name,
		Type:   core.TransactionType(req.Type),
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := category.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.UpdateCategory(r.Context(), category, userID); err != nil {
		respondStoreError(w, err)
		return
	}
	h.purgeReports()
	respondJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handlers) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), id, userID); err != nil {
		respondStoreError(w, err)
		return
	}
	h.purgeReports()
	w.WriteHeader(http.StatusNoContent)
}
