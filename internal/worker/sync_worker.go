// Package worker mirrors committed ledger rows into the export spreadsheet.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"vaulto/internal/amqp"
	"vaulto/internal/core"
	"vaulto/internal/sheets"
)

// SyncStore is the repository slice the sync worker needs.
type SyncStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	LookupCategory(ctx context.Context, id int64) (core.Category, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker consumes ledger events and appends the referenced transactions
// to the export sheet. The sheet is an append-only mirror; deletions stay in
// the database as tombstones and are simply never appended.
type SyncWorker struct {
	store     SyncStore
	writer    sheets.LedgerWriter
	batchSize int
}

func NewSyncWorker(store SyncStore, writer sheets.LedgerWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleLedgerEvent processes a single event from the queue.
func (w *SyncWorker) HandleLedgerEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	switch event.Kind {
	case amqp.KindTransactionCreated:
		return w.syncTransaction(ctx, event.TransactionID)
	case amqp.KindTransactionDeleted:
		// Append-only mirror: nothing to remove remotely.
		slog.DebugContext(ctx, "Ignoring delete event for append-only mirror",
			"transaction_id", event.TransactionID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown ledger event kind", "kind", event.Kind)
		return nil
	}
}

// ProcessPendingTransactions mirrors any rows whose events were lost. This
// is the backup mechanism behind the queue.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, t := range pending {
		if err := w.syncTransaction(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction",
				"transaction_id", t.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup, with a
// larger batch to recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, t := range pending {
		if err := w.syncTransaction(ctx, t.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"transaction_id", t.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) syncTransaction(ctx context.Context, id int64) error {
	t, err := w.store.GetTransaction(ctx, id)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("get transaction: %w", err)
	}
	if t.Deleted {
		// Deleted before the mirror caught up; drop it from the queue.
		return w.store.MarkSynced(ctx, id)
	}

	categoryName := ""
	if category, err := w.store.LookupCategory(ctx, t.CategoryID); err == nil {
		categoryName = category.Name
	} else {
		slog.WarnContext(ctx, "Category lookup failed, exporting without name",
			"transaction_id", id,
			"category_id", t.CategoryID,
			"error", err)
	}

	ref, err := w.writer.Append(ctx, sheets.Row{
		Date:        t.Date,
		Type:        string(t.Type),
		Category:    categoryName,
		Note:        t.Note,
		AmountCents: t.Amount.Cents,
	})
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, id); err != nil {
		// The append succeeded; the backlog pass may re-export this row.
		slog.ErrorContext(ctx, "Failed to mark as synced", "transaction_id", id, "error", err)
	}

	slog.InfoContext(ctx, "Synced transaction to sheet",
		"transaction_id", id,
		"sheets_ref", ref,
		"amount_cents", t.Amount.Cents)

	return nil
}
