package core

import "time"

// EventType represents the kind of change applied to the note collection.
type EventType string

const (
	EventLoad   EventType = "LOAD"
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event describes a change in the note collection or in the underlying storage.
type Event struct {
	Type      EventType
	ID        string
	Timestamp time.Time
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return string(e.Type) + " " + e.ID
}
