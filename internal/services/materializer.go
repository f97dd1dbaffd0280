package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vaulto/internal/core"
	"vaulto/internal/log"
)

// RecurringTaskStore is the slice of the repository the materializer needs.
type RecurringTaskStore interface {
	// ListDueTasks returns every task with next_run <= now.
	ListDueTasks(ctx context.Context, now time.Time) ([]core.RecurringTask, error)
	// GetTemplate returns (nil, nil) when the template is missing.
	GetTemplate(ctx context.Context, taskID int64) (*core.Transaction, error)
	// MaterializeTask commits the new transaction and the advanced
	// schedule as one atomic unit, or returns core.ErrTaskClaimed if a
	// concurrent process got there first.
	MaterializeTask(ctx context.Context, task core.RecurringTask, newTx core.Transaction, nextRun time.Time) (core.Transaction, error)
}

// LedgerEventPublisher announces ledger changes to downstream consumers.
type LedgerEventPublisher interface {
	PublishLedgerEvent(ctx context.Context, kind string, transactionID int64) error
}

// KindTransactionCreated mirrors the amqp package constant without importing
// it, so the service layer stays broker-agnostic.
const KindTransactionCreated = "transaction_created"

// Materializer turns due recurring tasks into concrete ledger transactions.
type Materializer struct {
	store  RecurringTaskStore
	events LedgerEventPublisher // optional, nil disables publishing

	// Execution token: at most one materialization run in flight per
	// process. Cross-process exclusivity comes from the per-task
	// optimistic claim in the store.
	running sync.Mutex
}

// NewMaterializer creates a materializer. events may be nil.
func NewMaterializer(store RecurringTaskStore, events LedgerEventPublisher) *Materializer {
	return &Materializer{
		store:  store,
		events: events,
	}
}

// MaterializeDue processes every recurring task due at now. Each task is an
// independent unit of work: one bad task is counted and skipped, never
// blocking its siblings. Re-invoking with the same now after a successful
// run materializes nothing further, because every processed task's schedule
// has advanced past now.
func (m *Materializer) MaterializeDue(ctx context.Context, now time.Time) (core.MaterializationReport, error) {
	if !m.running.TryLock() {
		slog.InfoContext(ctx, "Materialization already running, skipping this tick")
		return core.MaterializationReport{Skipped: true}, nil
	}
	defer m.running.Unlock()

	var report core.MaterializationReport

	tasks, err := m.store.ListDueTasks(ctx, now)
	if err != nil {
		return report, fmt.Errorf("list due tasks: %w", err)
	}

	slog.InfoContext(ctx, "Materializing due recurring tasks",
		"due", len(tasks),
		"run_time", now.Format(time.RFC3339))

	for _, task := range tasks {
		// Graceful shutdown: finish the current task, start no new one.
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "Materialization interrupted, remaining tasks stay due",
				"processed", report.Materialized+report.MissingTemplate+report.Failed,
				"due", len(tasks))
			break
		}
		m.materializeOne(ctx, task, now, &report)
	}

	slog.InfoContext(ctx, "Materialization run complete",
		"materialized", report.Materialized,
		"missing_template", report.MissingTemplate,
		"failed", report.Failed)

	return report, nil
}

func (m *Materializer) materializeOne(ctx context.Context, task core.RecurringTask, now time.Time, report *core.MaterializationReport) {
	template, err := m.store.GetTemplate(ctx, task.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load template transaction",
			log.FieldTaskID, task.ID,
			log.FieldError, err)
		report.Failed++
		return
	}
	if template == nil {
		// The schedule is left untouched so the task surfaces as due
		// again next tick instead of silently going dark.
		slog.WarnContext(ctx, "Recurring task has no template transaction, leaving it due",
			log.FieldTaskID, task.ID,
			"template_transaction_id", task.TemplateTransactionID)
		report.MissingTemplate++
		return
	}

	advancer, err := GetScheduleAdvancer(task.Frequency)
	if err != nil {
		slog.ErrorContext(ctx, "Recurring task has unknown frequency",
			log.FieldTaskID, task.ID,
			log.FieldFrequency, task.Frequency)
		report.Failed++
		return
	}

	newTx := core.Transaction{
		UserID:     template.UserID,
		CategoryID: template.CategoryID,
		Type:       template.Type,
		Amount:     template.Amount,
		Note:       annotateNote(template.Note),
		Date:       now,
	}

	created, err := m.store.MaterializeTask(ctx, task, newTx, advancer.Next(now))
	if errors.Is(err, core.ErrTaskClaimed) {
		// Another replica won the race for this task. Its schedule has
		// already advanced, so there is nothing left to do.
		slog.DebugContext(ctx, "Recurring task claimed by another run", log.FieldTaskID, task.ID)
		return
	}
	if err != nil {
		// Schedule was not advanced, so the task retries next tick.
		slog.ErrorContext(ctx, "Failed to materialize recurring task",
			log.FieldTaskID, task.ID,
			log.FieldError, err)
		report.Failed++
		return
	}

	report.Materialized++

	if m.events != nil {
		if err := m.events.PublishLedgerEvent(ctx, KindTransactionCreated, created.ID); err != nil {
			// The ledger row is committed; the sync worker's backlog
			// pass picks it up even without the event.
			slog.ErrorContext(ctx, "Failed to publish materialization event",
				log.FieldTransactionID, created.ID,
				log.FieldError, err)
		}
	}
}

func annotateNote(note string) string {
	return "Recurring: " + note
}
