// Package services holds the ledger's business logic: materializing
// recurring transactions and computing report aggregates.
package services

import (
	"fmt"
	"time"

	"vaulto/internal/core"
)

// ScheduleAdvancer is the strategy for computing a recurring task's next run
// after a successful materialization.
type ScheduleAdvancer interface {
	// Next returns the instant the task becomes due again, given the run
	// that just materialized it.
	Next(now time.Time) time.Time
}

type fixedOffsetAdvancer struct {
	offset time.Duration
}

func (a fixedOffsetAdvancer) Next(now time.Time) time.Time {
	return now.Add(a.offset)
}

// Monthly and yearly use fixed 30- and 365-day offsets. Not calendar-aware:
// the offsets are pinned so schedules stay reproducible, and whether a task
// due on the 31st should land on month ends is an open product question.
var scheduleStrategies = map[core.Frequency]ScheduleAdvancer{
	core.Daily:   fixedOffsetAdvancer{24 * time.Hour},
	core.Weekly:  fixedOffsetAdvancer{7 * 24 * time.Hour},
	core.Monthly: fixedOffsetAdvancer{30 * 24 * time.Hour},
	core.Yearly:  fixedOffsetAdvancer{365 * 24 * time.Hour},
}

// GetScheduleAdvancer returns the advance strategy for a frequency.
func GetScheduleAdvancer(frequency core.Frequency) (ScheduleAdvancer, error) {
	advancer, ok := scheduleStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return advancer, nil
}
