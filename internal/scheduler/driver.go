// Package scheduler runs the recurring-transaction materializer on a fixed
// cadence.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"vaulto/internal/clock"
	"vaulto/internal/core"
)

// Materializer is the single operation the driver invokes each tick.
type Materializer interface {
	MaterializeDue(ctx context.Context, now time.Time) (core.MaterializationReport, error)
}

// Driver is the long-lived background loop. Construct it once at process
// start with an injected clock, then Start/Stop it explicitly.
type Driver struct {
	materializer Materializer
	clock        clock.Clock
	interval     time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

func NewDriver(materializer Materializer, clk clock.Clock, interval time.Duration) *Driver {
	return &Driver{
		materializer: materializer,
		clock:        clk,
		interval:     interval,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the loop: one run immediately, then one per interval.
// It returns right away; use Stop or cancel ctx to end the loop.
func (d *Driver) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		go d.run(ctx)
	})
}

// Stop ends the loop and waits for any in-flight run to finish its current
// per-task unit of work. Safe to call without a prior Start; a Start after
// Stop is a no-op.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
	// Claim the start slot: if the loop never launched, nothing will close
	// done, and no later Start may launch it either.
	d.startOnce.Do(func() {
		close(d.done)
	})
	<-d.done
}

func (d *Driver) run(ctx context.Context) {
	defer close(d.done)

	slog.InfoContext(ctx, "Scheduler driver started", "interval", d.interval)

	d.runOnce(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Scheduler driver stopping", "reason", ctx.Err())
			return
		case <-d.stop:
			slog.InfoContext(ctx, "Scheduler driver stopped")
			return
		case <-ticker.C:
			d.runOnce(ctx)
		}
	}
}

// runOnce executes one materialization run. Panics and errors are contained
// here: a single bad run must never take down the loop.
func (d *Driver) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "Materialization run panicked", "panic", r)
		}
	}()

	now := d.clock.Now()
	report, err := d.materializer.MaterializeDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Materialization run failed", "error", err)
		return
	}
	if report.Skipped {
		return
	}

	slog.InfoContext(ctx, "Materialization tick complete",
		"materialized", report.Materialized,
		"missing_template", report.MissingTemplate,
		"failed", report.Failed,
		"next_tick", now.Add(d.interval).Format(time.RFC3339))
}
