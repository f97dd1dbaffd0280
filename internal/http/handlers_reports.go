package http

import (
	"fmt"
	"net/http"

	"vaulto/internal/core"
)

type summaryResponse struct {
	IncomeCents  int64 `json:"income_cents"`
	ExpenseCents int64 `json:"expense_cents"`
	BalanceCents int64 `json:"balance_cents"`
}

type breakdownEntryResponse struct {
	CategoryID  int64   `json:"category_id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
}

type breakdownResponse struct {
	TotalSpentCents int64                    `json:"total_spent_cents"`
	Entries         []breakdownEntryResponse `json:"entries"`
}

// reportCacheKey identifies one cached report body: endpoint, owner, window.
func reportCacheKey(endpoint string, userID int64, w core.Window) string {
	start, end := int64(0), int64(0)
	if !w.Start.IsZero() {
		start = w.Start.Unix()
	}
	if !w.End.IsZero() {
		end = w.End.Unix()
	}
	return fmt.Sprintf("%s:%d:%d:%d", endpoint, userID, start, end)
}

func (h *Handlers) cachedReport(key string) ([]byte, bool) {
	if h.reportCache == nil {
		return nil, false
	}
	return h.reportCache.Get(key)
}

func (h *Handlers) storeReport(key string, body []byte) {
	if h.reportCache != nil {
		h.reportCache.Set(key, body)
	}
}

// purgeReports drops every cached report. Called after any ledger write.
func (h *Handlers) purgeReports() {
	if h.reportCache != nil {
		h.reportCache.Purge()
	}
}

func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *Handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
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

	key := reportCacheKey("summary", userID, window)
	if body, ok := h.cachedReport(key); ok {
		writeCached(w, body)
		return
	}

	summary, err := h.reports.Summary(r.Context(), userID, window)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resp := summaryResponse{
		IncomeCents:  summary.Income.Cents,
		ExpenseCents: summary.Expense.Cents,
		BalanceCents: summary.Balance.Cents,
	}

	if body, err := marshalAndCache(h, key, resp); err == nil {
		writeCached(w, body)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleCategoryBreakdown(w http.ResponseWriter, r *http.Request) {
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

	key := reportCacheKey("breakdown", userID, window)
	if body, ok := h.cachedReport(key); ok {
		writeCached(w, body)
		return
	}

	breakdown, err := h.reports.CategoryBreakdown(r.Context(), userID, window)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resp := breakdownResponse{
		TotalSpentCents: breakdown.TotalSpent.Cents,
		Entries:         make([]breakdownEntryResponse, 0, len(breakdown.Entries)),
	}
	for _, e := range breakdown.Entries {
		resp.Entries = append(resp.Entries, breakdownEntryResponse{
			CategoryID:  e.CategoryID,
			Name:        e.Name,
			Icon:        e.Icon,
			AmountCents: e.Amount.Cents,
			Percentage:  e.Percentage,
		})
	}

	if body, err := marshalAndCache(h, key, resp); err == nil {
		writeCached(w, body)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
