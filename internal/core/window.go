package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PeriodAll is the sentinel period keyword that disables the default
// current-month lower bound.
const PeriodAll = "all"

// ErrInvalidWindow marks malformed start/end instants supplied by a caller.
// Malformed input fails the request; it is never silently coerced.
var ErrInvalidWindow = errors.New("invalid report window")

// Window is the time range over which an aggregate report is computed.
// A zero Start means unbounded below, a zero End unbounded above; the zero
// Window is "all time". End is inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// AllTime returns the unbounded window.
func AllTime() Window {
	return Window{}
}

// CurrentMonth returns a window opening at the first instant of now's
// calendar month in UTC, with no upper bound.
func CurrentMonth(now time.Time) Window {
	now = now.UTC()
	return Window{Start: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// IsAllTime reports whether the window has no bounds at all.
func (w Window) IsAllTime() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// ParseWindow builds a report window from caller-supplied parameters.
// An explicit start wins over the period keyword; with neither, the window
// defaults to the current calendar month. period "all" removes the default
// lower bound. Instants are RFC 3339, with a bare date accepted as its first
// instant in UTC.
func ParseWindow(startStr, endStr, period string, now time.Time) (Window, error) {
	var w Window

	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)
	period = strings.TrimSpace(period)

	switch {
	case startStr != "":
		start, err := parseInstant(startStr)
		if err != nil {
			return Window{}, fmt.Errorf("%w: start %q: %v", ErrInvalidWindow, startStr, err)
		}
		w.Start = start
	case period != PeriodAll:
		w.Start = CurrentMonth(now).Start
	}

	if endStr != "" {
		end, err := parseInstant(endStr)
		if err != nil {
			return Window{}, fmt.Errorf("%w: end %q: %v", ErrInvalidWindow, endStr, err)
		}
		w.End = end
	}

	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("%w: end before start", ErrInvalidWindow)
	}

	return w, nil
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
