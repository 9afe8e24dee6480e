// Package scoring resolves logged activity names to point values.
package scoring

import "github.com/okian/salesboard/internal/domain/model"

// Resolver maps an activity name to its current point value.
type Resolver interface {
	// Score returns the points for activity, or 0 when no rule matches.
	Score(activity string) int
}

// Table is a Resolver built from the activity catalog.
type Table struct {
	scores map[string]int
}

// NewTable builds a scoring table in a single pass over activities. When
// several rows share an activity name the last one wins. Rows are keyed by
// name only; the rule's role does not take part in resolution.
func NewTable(activities []model.Activity) *Table {
	t := &Table{scores: make(map[string]int, len(activities))}
	for _, a := range activities {
		t.scores[a.Activity] = a.Score
	}
	return t
}

// Score implements Resolver. Deleted or renamed rules resolve to 0.
func (t *Table) Score(activity string) int {
	if t == nil {
		return 0
	}
	return t.scores[activity]
}

// Len returns the number of distinct activity names in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.scores)
}

// Func adapts an ordinary function to the Resolver interface.
type Func func(activity string) int

// Score implements Resolver.
func (f Func) Score(activity string) int { return f(activity) }
