package services

import (
	"context"
	"testing"

	"vaulto/internal/core"
)

type fakeAggregator struct {
	sums   map[core.TransactionType]int64
	totals []core.CategoryTotal
}

func (f *fakeAggregator) SumByType(_ context.Context, _ int64, _ core.Window) (map[core.TransactionType]int64, error) {
	return f.sums, nil
}

func (f *fakeAggregator) ExpenseTotalsByCategory(_ context.Context, _ int64, _ core.Window) ([]core.CategoryTotal, error) {
	return f.totals, nil
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name        string
		sums        map[core.TransactionType]int64
		wantIncome  int64
		wantExpense int64
		wantBalance int64
	}{
		{
			name:        "income and expense",
			sums:        map[core.TransactionType]int64{core.Income: 50000, core.Expense: 12500},
			wantIncome:  50000,
			wantExpense: 12500,
			wantBalance: 37500,
		},
		{
			name:        "expense only yields negative balance",
			sums:        map[core.TransactionType]int64{core.Expense: 9900},
			wantExpense: 9900,
			wantBalance: -9900,
		},
		{
			name: "empty window is all zeros",
			sums: map[core.TransactionType]int64{},
		},
		{
			name: "transfers are excluded from both sides",
			sums: map[core.TransactionType]int64{core.Transfer: 70000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReportService(&fakeAggregator{sums: tt.sums})
			summary, err := svc.Summary(context.Background(), 1, core.AllTime())
			if err != nil {
				t.Fatalf("Summary() error: %v", err)
			}
			if summary.Income.Cents != tt.wantIncome {
				t.Errorf("Income = %d, want %d", summary.Income.Cents, tt.wantIncome)
			}
			if summary.Expense.Cents != tt.wantExpense {
				t.Errorf("Expense = %d, want %d", summary.Expense.Cents, tt.wantExpense)
			}
			if summary.Balance.Cents != tt.wantBalance {
				t.Errorf("Balance = %d, want %d", summary.Balance.Cents, tt.wantBalance)
			}
		})
	}
}

func TestCategoryBreakdown(t *testing.T) {
	svc := NewReportService(&fakeAggregator{totals: []core.CategoryTotal{
		{CategoryID: 1, Name: "Food", Icon: "🍝", Amount: core.Money{Cents: 10000}},
		{CategoryID: 2, Name: "Transport", Icon: "🚌", Amount: core.Money{Cents: 5000}},
	}})

	breakdown, err := svc.CategoryBreakdown(context.Background(), 1, core.AllTime())
	if err != nil {
		t.Fatalf("CategoryBreakdown() error: %v", err)
	}

	if breakdown.TotalSpent.Cents != 15000 {
		t.Errorf("TotalSpent = %d, want 15000", breakdown.TotalSpent.Cents)
	}
	if len(breakdown.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(breakdown.Entries))
	}
	if got := breakdown.Entries[0].Percentage; got != 66.7 {
		t.Errorf("Food percentage = %v, want 66.7", got)
	}
	if got := breakdown.Entries[1].Percentage; got != 33.3 {
		t.Errorf("Transport percentage = %v, want 33.3", got)
	}
}

func TestCategoryBreakdownSameNameStaysSeparate(t *testing.T) {
	// Two users may both own a "Food" category; identity is the ID.
	svc := NewReportService(&fakeAggregator{totals: []core.CategoryTotal{
		{CategoryID: 1, Name: "Food", Amount: core.Money{Cents: 6000}},
		{CategoryID: 9, Name: "Food", Amount: core.Money{Cents: 4000}},
	}})

	breakdown, err := svc.CategoryBreakdown(context.Background(), 1, core.AllTime())
	if err != nil {
		t.Fatalf("CategoryBreakdown() error: %v", err)
	}
	if len(breakdown.Entries) != 2 {
		t.Fatalf("got %d entries, want 2 distinct categories", len(breakdown.Entries))
	}
}

func TestCategoryBreakdownZeroSpend(t *testing.T) {
	svc := NewReportService(&fakeAggregator{totals: []core.CategoryTotal{
		{CategoryID: 1, Name: "Food", Amount: core.Money{Cents: 0}},
	}})

	breakdown, err := svc.CategoryBreakdown(context.Background(), 1, core.AllTime())
	if err != nil {
		t.Fatalf("CategoryBreakdown() error: %v", err)
	}
	if breakdown.TotalSpent.Cents != 0 {
		t.Errorf("TotalSpent = %d, want 0", breakdown.TotalSpent.Cents)
	}
	if got := breakdown.Entries[0].Percentage; got != 0 {
		t.Errorf("Percentage = %v, want 0 when nothing was spent", got)
	}
}

func TestRoundToOneDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.7},
		{33.333333, 33.3},
		{50, 50},
		{0.04, 0},
		{0.05, 0.1},
	}
	for _, tt := range tests {
		if got := roundToOneDecimal(tt.in); got != tt.want {
			t.Errorf("roundToOneDecimal(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
