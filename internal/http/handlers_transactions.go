package http

import (
	"net/http"
	"time"

	"vaulto/internal/core"
)

type transactionRequest struct {
	CategoryID  int64  `json:"category_id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
	Date        string `json:"date"`
}

type transactionResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	CategoryID  int64  `json:"category_id"`
	Type        string `json:"type"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note"`
	Date        string `json:"date"`
}

func toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Note:        t.Note,
		Date:        t.Date.UTC().Format(time.RFC3339),
	}
}

func (h *Handlers) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	window, err := parseWindowQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.transactions.List(r.Context(), userID, window)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid date, want RFC 3339")
			return
		}
		date = parsed.UTC()
	}

	created, err := h.transactions.Create(r.Context(), core.Transaction{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Type:       core.TransactionType(req.Type),
		Amount:     core.Money{Cents: req.AmountCents},
		Note:       req.Note,
		Date:       date,
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	h.purgeReports()
	respondJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (h *Handlers) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := h.transactions.Delete(r.Context(), id, userID); err != nil {
		respondStoreError(w, err)
		return
	}

	h.purgeReports()
	w.WriteHeader(http.StatusNoContent)
}
