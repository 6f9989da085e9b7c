package realtime

import "encoding/json"

// EventType discriminates feed messages.
type EventType string

const (
	// EventTableChange tells clients a table changed; they re-fetch it.
	EventTableChange EventType = "table_change"
	// EventNotification is a reminder addressed to a single member.
	EventNotification EventType = "notification"
)

// Event is the wire shape pushed to websocket clients and carried over
// the redis channel between api instances.
type Event struct {
	Type   EventType `json:"type"`
	Table  string    `json:"table,omitempty"`
	Target string    `json:"target,omitempty"`
	Title  string    `json:"title,omitempty"`
	Body   string    `json:"body,omitempty"`
}

// Encode serializes the event for transport.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses an event from its transport form.
func DecodeEvent(raw []byte) (Event, error) {
	var event Event
	err := json.Unmarshal(raw, &event)
	return event, err
}
