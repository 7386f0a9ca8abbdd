package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated EventType = "request_created"
	EventRequestUpdated EventType = "request_updated"
	EventRequestDeleted EventType = "request_deleted"
)

// Event represents a domain event emitted by services. Actor is the
// authenticated username that triggered the change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// RequestUpdatedPayload payload.
type RequestUpdatedPayload struct {
	Title     string `json:"title"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// RequestDeletedPayload payload.
type RequestDeletedPayload struct {
	Title string `json:"title"`
}
