package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType discriminates the variants of user-facing events a routine may
// emit during execution.
type EventType string

const (
	// EventStatusUpdated signals a change in what the routine is currently doing,
	// suitable for a transient status line.
	EventStatusUpdated EventType = "status_updated"
	// EventMessage carries conversational output intended for the chat transcript.
	EventMessage EventType = "message"
	// EventInformation carries auxiliary informational output (notices, progress detail).
	EventInformation EventType = "information"
	// EventError carries an in-band error notification. Emitting one is advisory
	// and independent of whether the routine also fails; a routine may emit an
	// Error event and still return normally.
	EventError EventType = "error"
)

// Event is the unit of communication between executing routines and external
// consumers (chat transcript, log, status line). After emission it should be
// treated as immutable. Events are delivered synchronously in the order they
// are emitted and are not persisted by the engine; external consumers decide
// rendering and retention.
type Event struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Type      EventType `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent creates an event of the given type bound to a run.
// Prefer the per-variant constructors at call sites.
func NewEvent(runID string, typ EventType, message string) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Type:      typ,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewStatusUpdatedEvent creates a StatusUpdated event.
func NewStatusUpdatedEvent(runID, message string) Event {
	return NewEvent(runID, EventStatusUpdated, message)
}

// NewMessageEvent creates a Message event.
func NewMessageEvent(runID, message string) Event {
	return NewEvent(runID, EventMessage, message)
}

// NewInformationEvent creates an Information event.
func NewInformationEvent(runID, message string) Event {
	return NewEvent(runID, EventInformation, message)
}

// NewErrorEvent creates an Error event.
func NewErrorEvent(runID, message string) Event {
	return NewEvent(runID, EventError, message)
}

// NewID generates a new unique identifier for events and runs.
func NewID() string { return uuid.NewString() }
