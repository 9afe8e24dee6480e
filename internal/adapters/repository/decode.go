package repository

import (
	"encoding/json"

	"github.com/okian/salesboard/internal/domain/model"
)

// looseEvent shadows Date so a row with an unreadable date still decodes.
type looseEvent struct {
	model.ActivityEvent
	Date json.RawMessage `json:"date"`
}

// decodeEvent decodes one stored log row. A date that is not YYYY-MM-DD or
// RFC 3339 leaves the event dateless, so no window selects it. Rows that
// cannot be decoded at all are reported as not ok.
func decodeEvent(row json.RawMessage) (model.ActivityEvent, bool) {
	var e model.ActivityEvent
	if err := json.Unmarshal(row, &e); err == nil {
		return e, true
	}
	var loose looseEvent
	if err := json.Unmarshal(row, &loose); err != nil {
		return model.ActivityEvent{}, false
	}
	return loose.ActivityEvent, true
}

// decodeEvents decodes rows in order, dropping rows decodeEvent rejects.
func decodeEvents(rows []json.RawMessage) []model.ActivityEvent {
	events := make([]model.ActivityEvent, 0, len(rows))
	for _, row := range rows {
		if e, ok := decodeEvent(row); ok {
			events = append(events, e)
		}
	}
	return events
}
