package core

// Summary holds period-scoped income/expense totals for one user.
type Summary struct {
	Income  Money
	Expense Money
	Balance Money
}

// CategoryTotal is one expense category's summed amount inside a window,
// keyed by category identity so that two categories sharing a display name
// are never merged.
type CategoryTotal struct {
	CategoryID int64
	Name       string
	Icon       string
	Amount     Money
}

// BreakdownEntry is a CategoryTotal with its share of the total spend,
// rounded to one decimal.
type BreakdownEntry struct {
	CategoryID int64
	Name       string
	Icon       string
	Amount     Money
	Percentage float64
}

// CategoryBreakdown is the expense breakdown report, ordered by amount
// descending with ties broken by category ID.
type CategoryBreakdown struct {
	TotalSpent Money
	Entries    []BreakdownEntry
}

// MaterializationReport summarizes one materialization run.
type MaterializationReport struct {
	// Skipped is set when the run gave way to another run already holding
	// the execution token. All counters are zero in that case.
	Skipped bool

	Materialized    int
	MissingTemplate int
	Failed          int
}
