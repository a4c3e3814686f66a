package broker

import (
	"encoding/json"
	"time"
)

// Event is the JSON payload published on every subject. Fields not relevant
// to a given subject are omitted.
type Event struct {
	Type      string    `json:"type"`
	NoteID    string    `json:"note_id,omitempty"`
	ShortID   string    `json:"short_id,omitempty"`
	ReportID  string    `json:"report_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType string) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Event) FromJSON(data []byte) error {
	return json.Unmarshal(data, e)
}
