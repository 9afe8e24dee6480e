package simulate

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/okian/salesboard/internal/domain/model"
)

// UnscoredActivity is logged but never added to the scoring table, so it
// must contribute nothing.
const UnscoredActivity = "Coffee Chat"

var (
	salesActivities = []string{"Cold Call", "Discovery Meeting", "Proposal Sent", "Deal Closed"}
	amActivities    = []string{"QBR", "Upsell Pitch", "Renewal Signed", "Escalation Resolved"}
	regions         = []string{"North", "South", "East", "West"}
	units           = []string{"Cloud", "Data", "Security"}
)

// generator produces a reproducible catalog and event stream.
type generator struct {
	rng *rand.Rand
	tag string
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x5a1e5b0a4d)),
		// Names carry a run tag so events left by earlier runs never match.
		tag: uuid.NewString()[:8],
	}
}

// members returns n members for each role, alternating roles so both boards
// interleave in catalog order.
func (g *generator) members(n int) []model.Member {
	out := make([]model.Member, 0, 2*n)
	for i := range n {
		for _, role := range model.Roles {
			prefix := "SAM"
			if role == model.RoleAccountManager {
				prefix = "AM"
			}
			out = append(out, model.Member{
				Name:   fmt.Sprintf("%s %s-%03d", prefix, g.tag, i+1),
				Role:   role,
				Region: regions[g.rng.IntN(len(regions))],
				BU:     units[g.rng.IntN(len(units))],
			})
		}
	}
	return out
}

// activities returns the scoring table. Scores are multiples of five, and
// some are zero so ties are common.
func (g *generator) activities() []model.Activity {
	out := make([]model.Activity, 0, len(salesActivities)+len(amActivities))
	for _, name := range salesActivities {
		out = append(out, model.Activity{Activity: name, Role: model.RoleSales, Score: 5 * g.rng.IntN(5)})
	}
	for _, name := range amActivities {
		out = append(out, model.Activity{Activity: name, Role: model.RoleAccountManager, Score: 5 * g.rng.IntN(5)})
	}
	return out
}

// event picks a random member and activity. About one in ten events is
// dated the day before the window and one in twenty is unscored.
func (g *generator) event(members []model.Member, cfg *Config) logPayload {
	m := members[g.rng.IntN(len(members))]
	names := salesActivities
	if m.Role == model.RoleAccountManager {
		names = amActivities
	}
	activity := names[g.rng.IntN(len(names))]
	if g.rng.IntN(20) == 0 {
		activity = UnscoredActivity
	}
	date := cfg.Start.AddDays(g.rng.IntN(cfg.Days))
	if g.rng.IntN(10) == 0 {
		date = cfg.Start.AddDays(-1)
	}
	return logPayload{
		Date:       date,
		SAMName:    m.Name,
		Activity:   activity,
		ClientType: model.ClientTypes[g.rng.IntN(len(model.ClientTypes))],
	}
}

type logPayload struct {
	Date       model.Date       `json:"date"`
	SAMName    string           `json:"sam_name"`
	Activity   string           `json:"activity"`
	ClientType model.ClientType `json:"client_type"`
}

func (p logPayload) toEvent() model.ActivityEvent {
	return model.ActivityEvent{Date: p.Date, SAMName: p.SAMName, Activity: p.Activity, ClientType: p.ClientType}
}
