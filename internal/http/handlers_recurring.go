package http

import (
	"net/http"
	"time"

	"vaulto/internal/core"
)

type recurringRequest struct {
	Frequency             string `json:"frequency"`
	NextRun               string `json:"next_run"`
	TemplateTransactionID int64  `json:"template_transaction_id"`
}

type recurringResponse struct {
	ID                    int64  `json:"id"`
	Frequency             string `json:"frequency"`
	NextRun               string `json:"next_run"`
	TemplateTransactionID int64  `json:"template_transaction_id"`
}

func toRecurringResponse(rt core.RecurringTask) recurringResponse {
	return recurringResponse{
		ID:                    rt.ID,
		Frequency:             string(rt.Frequency),
		NextRun:               rt.NextRun.UTC().Format(time.RFC3339),
		TemplateTransactionID: rt.TemplateTransactionID,
	}
}

func (h *Handlers) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	tasks, err := h.catalog.ListRecurringTasks(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]recurringResponse, 0, len(tasks))
	for _, rt := range tasks {
		out = append(out, toRecurringResponse(rt))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	nextRun := time.Now().UTC()
	if req.NextRun != "" {
		parsed, err := time.Parse(time.RFC3339, req.NextRun)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid next_run, want RFC 3339")
			return
		}
		nextRun = parsed.UTC()
	}

	task := core.RecurringTask{
		UserID:                userID,
		Frequency:             core.Frequency(req.Frequency),
		NextRun:               nextRun,
		TemplateTransactionID: req.TemplateTransactionID,
	}
	if err := task.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.catalog.CreateRecurringTask(r.Context(), task)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringResponse(created))
}
