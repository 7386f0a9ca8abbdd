package domain

import "time"

// DefaultStatus is applied when a request is created without one.
const DefaultStatus = "Open"

// Field length limits enforced at the service boundary and mirrored by the schema.
const (
	MaxTitleLength     = 100
	MaxStatusLength    = 50
	MaxCreatedByLength = 100
)

// ServiceRequest is the aggregate for support requests. Status is free-form
// (commonly "Open", "In Progress", "Closed"); no state machine is enforced.
// CreatedDate and CreatedBy are server-authoritative and write-once.
type ServiceRequest struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
}
