package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - Inclusive time window for one calculation
// =============================================================================

// Period is the [Start, End] window a payroll run covers. Both bounds are
// inclusive: an event starting exactly at either bound is counted.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Validate rejects an inverted period before the pipeline runs.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: zero boundary", ErrInvalidPeriod)
	}
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

func (p Period) String() string {
	return "[" + p.Start.Format(time.RFC3339) + ", " + p.End.Format(time.RFC3339) + "]"
}

// MonthPeriod returns the full calendar month in the given location,
// from midnight on the 1st through the last nanosecond of the last day.
func MonthPeriod(year int, month time.Month, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}
