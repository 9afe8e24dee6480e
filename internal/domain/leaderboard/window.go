// Package leaderboard turns the activity log into role-partitioned,
// score-ordered leaderboards. Results are computed from scratch on every
// call; nothing here caches or mutates its inputs.
package leaderboard

import (
	"fmt"

	"github.com/okian/salesboard/internal/domain/model"
)

// Window is an inclusive calendar-date range.
type Window struct {
	Start model.Date
	End   model.Date
}

// NewWindow returns the window [start, end]. It fails with ErrInvalidRange
// when either bound is missing or start falls after end.
func NewWindow(start, end model.Date) (Window, error) {
	if start.IsZero() || end.IsZero() {
		return Window{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	if start.After(end) {
		return Window{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return Window{Start: start, End: end}, nil
}

// Contains reports whether d lies within the window, bounds included.
func (w Window) Contains(d model.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Filter returns the events dated within the window, in log order.
// Undated events never match.
func (w Window) Filter(events []model.ActivityEvent) []model.ActivityEvent {
	out := make([]model.ActivityEvent, 0, len(events))
	for _, e := range events {
		if e.Date.IsZero() || !w.Contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (w Window) String() string {
	return w.Start.String() + ".." + w.End.String()
}
