package leaderboard

import (
	"sort"

	"github.com/okian/salesboard/internal/domain/model"
	"github.com/okian/salesboard/internal/domain/scoring"
)

// Boards holds the two role leaderboards, best score first.
type Boards struct {
	Sales           []Entry `json:"sales"`
	AccountManagers []Entry `json:"am"`
}

// Build partitions entries by current role and orders each partition by
// score, highest first. Ties keep their input order. Entries whose role is
// not a known role appear on neither board.
func Build(entries []Entry) Boards {
	b := Boards{Sales: []Entry{}, AccountManagers: []Entry{}}
	for _, e := range entries {
		switch e.Role {
		case model.RoleSales:
			b.Sales = append(b.Sales, e)
		case model.RoleAccountManager:
			b.AccountManagers = append(b.AccountManagers, e)
		}
	}
	sortByScore(b.Sales)
	sortByScore(b.AccountManagers)
	return b
}

func sortByScore(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// For returns the board for role, or nil for an unknown role.
func (b Boards) For(role model.Role) []Entry {
	switch role {
	case model.RoleSales:
		return b.Sales
	case model.RoleAccountManager:
		return b.AccountManagers
	default:
		return nil
	}
}

// Rank returns the 1-based position of name on role's board.
func (b Boards) Rank(role model.Role, name string) (int, bool) {
	for i, e := range b.For(role) {
		if e.Name == name {
			return i + 1, true
		}
	}
	return 0, false
}

// Report is a computed leaderboard together with aggregation diagnostics.
type Report struct {
	Window         Window
	Boards         Boards
	Considered     int
	Orphaned       int
	DuplicateNames []string
}

// Compute runs the full pipeline: window filter, aggregation against the
// current catalogs, then role partitioning.
func Compute(w Window, events []model.ActivityEvent, members []model.Member, activities []model.Activity) Report {
	inWindow := w.Filter(events)
	agg := Aggregate(inWindow, members, scoring.NewTable(activities))
	return Report{
		Window:         w,
		Boards:         Build(agg.Entries),
		Considered:     len(inWindow),
		Orphaned:       agg.Orphaned,
		DuplicateNames: agg.DuplicateNames,
	}
}
