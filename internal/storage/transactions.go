package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vaulto/internal/core"
)

// windowFilter appends date-range conditions for a report window. End is
// inclusive per the report contract.
func windowFilter(w core.Window, args []any) (string, []any) {
	clause := ""
	if !w.Start.IsZero() {
		clause += " AND date >= ?"
		args = append(args, encodeTime(w.Start))
	}
	if !w.End.IsZero() {
		clause += " AND date <= ?"
		args = append(args, encodeTime(w.End))
	}
	return clause, args
}

// CreateTransaction inserts a ledger row and returns it with its ID set.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, type, amount_cents, note, date, is_deleted, sync_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		t.UserID, t.CategoryID, string(t.Type), t.Amount.Cents, t.Note,
		encodeTime(t.Date), SyncPending, encodeTime(time.Now()))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// GetTransaction returns a single transaction, including soft-deleted rows.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, category_id, type, amount_cents, note, date, is_deleted
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// SoftDeleteTransaction marks the owner's transaction deleted. The row stays
// in place as a tombstone and drops out of every active query and aggregate.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET is_deleted = 1 WHERE id = ? AND user_id = ? AND is_deleted = 0`,
		id, userID)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListTransactions returns the owner's non-deleted transactions inside the
// window, newest first.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, w core.Window) ([]core.Transaction, error) {
	args := []any{userID}
	clause, args := windowFilter(w, args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, type, amount_cents, note, date, is_deleted
		 FROM transactions WHERE user_id = ? AND is_deleted = 0`+clause+
			` ORDER BY date DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumByType sums non-deleted amounts per transaction type inside the window.
// Absent types are simply missing from the map.
func (r *SQLiteRepository) SumByType(ctx context.Context, userID int64, w core.Window) (map[core.TransactionType]int64, error) {
	args := []any{userID}
	clause, args := windowFilter(w, args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT type, SUM(amount_cents) FROM transactions
		 WHERE user_id = ? AND is_deleted = 0`+clause+` GROUP BY type`, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by type: %w", err)
	}
	defer rows.Close()

	sums := make(map[core.TransactionType]int64)
	for rows.Next() {
		var typ string
		var cents int64
		if err := rows.Scan(&typ, &cents); err != nil {
			return nil, fmt.Errorf("scan type sum: %w", err)
		}
		sums[core.TransactionType(typ)] = cents
	}
	return sums, rows.Err()
}

// ExpenseTotalsByCategory sums the owner's non-deleted expenses per category
// identity, joined to the category for its display fields. Ordered by amount
// descending, ties broken by category ID for determinism.
func (r *SQLiteRepository) ExpenseTotalsByCategory(ctx context.Context, userID int64, w core.Window) ([]core.CategoryTotal, error) {
	args := []any{userID, string(core.Expense)}
	clause, args := windowFilter(w, args)

	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.icon, SUM(t.amount_cents) AS total
		 FROM transactions t
		 JOIN categories c ON c.id = t.category_id
		 WHERE t.user_id = ? AND t.is_deleted = 0 AND t.type = ?`+clause+`
		 GROUP BY c.id
		 ORDER BY total DESC, c.id ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("expense totals by category: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.Name, &ct.Icon, &ct.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// GetPendingSyncTransactions returns rows not yet mirrored to the export
// sheet, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category_id, type, amount_cents, note, date, is_deleted
		 FROM transactions WHERE sync_status = ? AND is_deleted = 0
		 ORDER BY id ASC LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MarkSynced marks a transaction as mirrored to the export sheet.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// MarkSyncError marks a transaction as having failed to mirror.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		typ     string
		date    int64
		deleted int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &typ, &t.Amount.Cents, &t.Note, &date, &deleted); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(typ)
	t.Date = decodeTime(date)
	t.Deleted = deleted != 0
	return t, nil
}
