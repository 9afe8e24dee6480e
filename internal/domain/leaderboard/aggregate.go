package leaderboard

import (
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/scoring"
)

// Entry is a member's cumulative score for a window.
type Entry struct {
	ID     model.ID   `json:"id"`
	Name   string     `json:"name"`
	Region string     `json:"region"`
	BU     string     `json:"bu"`
	Role   model.Role `json:"role"`
	Score  int        `json:"score"`
}

// Result is the output of Aggregate.
type Result struct {
	// Entries holds one entry per distinct member name, in catalog order.
	Entries []Entry
	// Orphaned counts events whose member is no longer in the catalog.
	Orphaned int
	// DuplicateNames lists names that appear more than once in the catalog.
	DuplicateNames []string
}

// Aggregate folds events into per-member totals. Every member starts at 0 so
// members without activity still appear. Events naming a member that is not
// in the catalog are dropped.
//
// Members are keyed by name. When a name repeats, the entry keeps the
// position of its first occurrence and the attributes of its last.
func Aggregate(events []model.ActivityEvent, members []model.Member, resolver scoring.Resolver) Result {
	res := Result{Entries: make([]Entry, 0, len(members))}
	index := make(map[string]int, len(members))

	for _, m := range members {
		entry := Entry{ID: m.ID, Name: m.Name, Region: m.Region, BU: m.BU, Role: m.Role}
		if i, ok := index[m.Name]; ok {
			res.Entries[i] = entry
			res.DuplicateNames = append(res.DuplicateNames, m.Name)
			continue
		}
		index[m.Name] = len(res.Entries)
		res.Entries = append(res.Entries, entry)
	}

	for _, e := range events {
		i, ok := index[e.SAMName]
		if !ok {
			res.Orphaned++
			continue
		}
		res.Entries[i].Score += resolver.Score(e.Activity)
	}
	return res
}
