package services

import (
	"context"
	"fmt"
	"math"

	"vaulto/internal/core"
)

// TransactionAggregator is the read-only slice of the repository the report
// service needs. Implementations must already exclude soft-deleted rows.
type TransactionAggregator interface {
	SumByType(ctx context.Context, userID int64, w core.Window) (map[core.TransactionType]int64, error)
	ExpenseTotalsByCategory(ctx context.Context, userID int64, w core.Window) ([]core.CategoryTotal, error)
}

// ReportService computes period-scoped aggregates over a user's ledger.
// Reports are plain reads; they take no locks and may run concurrently with
// materialization.
type ReportService struct {
	store TransactionAggregator
}

func NewReportService(store TransactionAggregator) *ReportService {
	return &ReportService{store: store}
}

// Summary returns income and expense totals inside the window, with
// balance = income - expense. Absent groups count as zero.
func (s *ReportService) Summary(ctx context.Context, userID int64, w core.Window) (core.Summary, error) {
	sums, err := s.store.SumByType(ctx, userID, w)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum by type: %w", err)
	}

	income := sums[core.Income]
	expense := sums[core.Expense]

	return core.Summary{
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
		Balance: core.Money{Cents: income - expense},
	}, nil
}

// CategoryBreakdown returns the window's expenses grouped by category
// identity, each with its share of the total spend rounded to one decimal.
// All percentages are zero when nothing was spent.
func (s *ReportService) CategoryBreakdown(ctx context.Context, userID int64, w core.Window) (core.CategoryBreakdown, error) {
	totals, err := s.store.ExpenseTotalsByCategory(ctx, userID, w)
	if err != nil {
		return core.CategoryBreakdown{}, fmt.Errorf("expense totals by category: %w", err)
	}

	var totalSpent int64
	for _, ct := range totals {
		totalSpent += ct.Amount.Cents
	}

	entries := make([]core.BreakdownEntry, 0, len(totals))
	for _, ct := range totals {
		var pct float64
		if totalSpent > 0 {
			pct = roundToOneDecimal(float64(ct.Amount.Cents) / float64(totalSpent) * 100)
		}
		entries = append(entries, core.BreakdownEntry{
			CategoryID: ct.CategoryID,
			Name:       ct.Name,
			Icon:       ct.Icon,
			Amount:     ct.Amount,
			Percentage: pct,
		})
	}

	return core.CategoryBreakdown{
		TotalSpent: core.Money{Cents: totalSpent},
		Entries:    entries,
	}, nil
}

func roundToOneDecimal(x float64) float64 {
	return math.Round(x*10) / 10
}
