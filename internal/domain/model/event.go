// Package model contains domain models passed between layers.
package model

// ClientType classifies the client an activity was performed for.
// It is recorded with every event but does not affect scoring.
type ClientType string

// Known client types.
const (
	ClientMustGrow     ClientType = "Must Grow"
	ClientExisting     ClientType = "Client"
	ClientMustWin      ClientType = "Must Win"
	ClientProspectHigh ClientType = "Prospect High"
	ClientProspectLow  ClientType = "Prospect Low"
	ClientNA           ClientType = "N/A"
)

// ClientTypes lists every known client type.
var ClientTypes = []ClientType{
	ClientMustGrow, ClientExisting, ClientMustWin,
	ClientProspectHigh, ClientProspectLow, ClientNA,
}

// Valid reports whether c is a known client type.
func (c ClientType) Valid() bool {
	for _, known := range ClientTypes {
		if c == known {
			return true
		}
	}
	return false
}

// ActivityEvent is one logged activity. Events are append-only.
type ActivityEvent struct {
	ID         ID         `json:"id"`
	Date       Date       `json:"date"`
	SAMName    string     `json:"sam_name"`
	Activity   string     `json:"activity"`
	ClientType ClientType `json:"client_type"`
	// Role is the member's role when the event was logged. It is kept for
	// display; leaderboards partition by the member's current role.
	Role Role `json:"role"`
}
