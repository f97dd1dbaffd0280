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

// CreateRecurringTask registers a new schedule entity.
func (r *SQLiteRepository) CreateRecurringTask(ctx context.Context, rt core.RecurringTask) (core.RecurringTask, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_transactions (user_id, frequency, next_run_date, template_transaction_id)
		 VALUES (?, ?, ?, ?)`,
		rt.UserID, string(rt.Frequency), encodeTime(rt.NextRun), rt.TemplateTransactionID)
	if err != nil {
		return core.RecurringTask{}, fmt.Errorf("insert recurring task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.RecurringTask{}, fmt.Errorf("recurring task id: %w", err)
	}
	rt.ID = id
	return rt, nil
}

// ListRecurringTasks returns the owner's schedule entities.
func (r *SQLiteRepository) ListRecurringTasks(ctx context.Context, userID int64) ([]core.RecurringTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, frequency, next_run_date, template_transaction_id
		 FROM recurring_transactions WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recurring tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// ListDueTasks returns every task whose next run is at or before now.
func (r *SQLiteRepository) ListDueTasks(ctx context.Context, now time.Time) ([]core.RecurringTask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, frequency, next_run_date, template_transaction_id
		 FROM recurring_transactions WHERE next_run_date <= ? ORDER BY id ASC`,
		encodeTime(now))
	if err != nil {
		return nil, fmt.Errorf("list due tasks: %w", err)
	}
	defer rows.Close()
	return collectTasks(rows)
}

// GetTemplate loads a task's template transaction. A missing or soft-deleted
// template returns (nil, nil): the task is inert but must keep surfacing as
// due so the condition can be detected externally.
func (r *SQLiteRepository) GetTemplate(ctx context.Context, taskID int64) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.category_id, t.type, t.amount_cents, t.note, t.date, t.is_deleted
		 FROM recurring_transactions rt
		 JOIN transactions t ON t.id = rt.template_transaction_id
		 WHERE rt.id = ? AND t.is_deleted = 0`, taskID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template for task %d: %w", taskID, err)
	}
	return &t, nil
}

// MaterializeTask commits one materialization as a single atomic unit: the
// task's schedule is advanced with an optimistic guard on its observed next
// run, and the new ledger row is inserted in the same SQL transaction. If
// another process advanced the task first the guard matches zero rows, the
// whole unit rolls back and core.ErrTaskClaimed is returned, so at most one
// transaction is ever created per due cycle.
func (r *SQLiteRepository) MaterializeTask(ctx context.Context, task core.RecurringTask, newTx core.Transaction, nextRun time.Time) (core.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin materialize: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE recurring_transactions SET next_run_date = ? WHERE id = ? AND next_run_date = ?`,
		encodeTime(nextRun), task.ID, encodeTime(task.NextRun))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("advance schedule: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("advance schedule: %w", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrTaskClaimed
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, category_id, type, amount_cents, note, date, is_deleted, sync_status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		newTx.UserID, newTx.CategoryID, string(newTx.Type), newTx.Amount.Cents,
		newTx.Note, encodeTime(newTx.Date), SyncPending, encodeTime(time.Now()))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert materialized transaction: %w", err)
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("materialized transaction id: %w", err)
	}
	newTx.ID = id

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit materialize: %w", err)
	}

	slog.InfoContext(ctx, "Materialized recurring transaction",
		"task_id", task.ID,
		"transaction_id", newTx.ID,
		"frequency", task.Frequency,
		"next_run", nextRun.Format(time.RFC3339))

	return newTx, nil
}

func collectTasks(rows *sql.Rows) ([]core.RecurringTask, error) {
	var out []core.RecurringTask
	for rows.Next() {
		var (
			rt      core.RecurringTask
			freq    string
			nextRun int64
		)
		if err := rows.Scan(&rt.ID, &rt.UserID, &freq, &nextRun, &rt.TemplateTransactionID); err != nil {
			return nil, fmt.Errorf("scan recurring task: %w", err)
		}
		rt.Frequency = core.Frequency(freq)
		rt.NextRun = decodeTime(nextRun)
		out = append(out, rt)
	}
	return out, rows.Err()
}
