package simulator

// EventType tags an event pushed to the rendering boundary.
type EventType string

const (
	EventEntry  EventType = "entry"
	EventTyping EventType = "typing"
	EventMode   EventType = "mode"
	EventReset  EventType = "reset"
)

// Event is what the presentation layer consumes: new timeline entries,
// typing-indicator flips, and "which control is active" changes. It never
// carries mutations of past entries; the timeline is append-only.
type Event struct {
	Type        EventType `json:"type"`
	Entry       *Entry    `json:"entry,omitempty"`
	Typing      bool      `json:"typing,omitempty"`
	Mode        Mode      `json:"mode,omitempty"`
	ActiveField string    `json:"activeField,omitempty"`
	FieldIndex  int       `json:"fieldIndex"`
}

// Listener receives events in emit order. It is called while the session
// advances, so implementations should hand off quickly.
type Listener func(Event)
