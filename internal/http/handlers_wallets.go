package http

import (
	"net/http"

	"vaulto/internal/core"
)

type walletRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	BalanceCents int64  `json:"balance_cents"`
}

type walletResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	BalanceCents int64  `json:"balance_cents"`
}

type budgetRequest struct {
	CategoryID        int64 `json:"category_id"`
	MonthlyLimitCents int64 `json:"monthly_limit_cents"`
	Month             int   `json:"month"`
	Year              int   `json:"year"`
}

type budgetResponse struct {
	ID                int64 `json:"id"`
	CategoryID        int64 `json:"category_id"`
	MonthlyLimitCents int64 `json:"monthly_limit_cents"`
	Month             int   `json:"month"`
	Year              int   `json:"year"`
}

func (h *Handlers) handleListWallets(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	wallets, err := h.catalog.ListWallets(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]walletResponse, 0, len(wallets))
	for _, wal := range wallets {
		out = append(out, walletResponse{
			ID:           wal.ID,
			Name:         wal.Name,
			Type:         string(wal.Type),
			BalanceCents: wal.Balance.Cents,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req walletRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	wallet := core.Wallet{
		UserID:  userID,
		Name:    req.Name,
		Type:    core.WalletType(req.Type),
		Balance: core.Money{Cents: req.BalanceCents},
	}
	if err := wallet.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.catalog.CreateWallet(r.Context(), wallet)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, walletResponse{
		ID:           created.ID,
		Name:         created.Name,
		Type:         string(created.Type),
		BalanceCents: created.Balance.Cents,
	})
}

func (h *Handlers) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	budgets, err := h.catalog.ListBudgets(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, budgetResponse{
			ID:                b.ID,
			CategoryID:        b.CategoryID,
			MonthlyLimitCents: b.MonthlyLimit.Cents,
			Month:             b.Month,
			Year:              b.Year,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handlers) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	budget := core.Budget{
		UserID:       userID,
		CategoryID:   req.CategoryID,
		MonthlyLimit: core.Money{Cents: req.MonthlyLimitCents},
		Month:        req.Month,
		Year:         req.Year,
	}
	if err := budget.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.catalog.CreateBudget(r.Context(), budget)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, budgetResponse{
		ID:                created.ID,
		CategoryID:        created.CategoryID,
		MonthlyLimitCents: created.MonthlyLimit.Cents,
		Month:             created.Month,
		Year:              created.Year,
	})
}
