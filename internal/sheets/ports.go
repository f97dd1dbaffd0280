// Package sheets defines the outbound port for mirroring ledger rows to a
// spreadsheet.
package sheets

import (
	"context"
	"time"
)

// Row is one ledger line in export form.
type Row struct {
	Date        time.Time
	Type        string
	Category    string
	Note        string
	AmountCents int64
}

// LedgerWriter appends rows to the export target.
type LedgerWriter interface {
	Append(ctx context.Context, r Row) (rowRef string, err error)
}
