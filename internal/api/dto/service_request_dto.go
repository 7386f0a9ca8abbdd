package dto

import (
	"time"

	"github.com/spec-kit/service-request-manager/internal/domain"
)

// ServiceRequestPayload is the request body for create and replace. Client
// supplied createdDate values are ignored on create and overridden on replace.
type ServiceRequestPayload struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
}

// ServiceRequestResponse is the wire representation of a persisted record.
type ServiceRequestResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedDate time.Time `json:"createdDate"`
	Status      string    `json:"status"`
	CreatedBy   string    `json:"createdBy"`
}

// ToDomain converts the payload to the domain model.
func (p ServiceRequestPayload) ToDomain() *domain.ServiceRequest {
	return &domain.ServiceRequest{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		CreatedDate: p.CreatedDate,
		Status:      p.Status,
		CreatedBy:   p.CreatedBy,
	}
}

// FromDomain converts a domain record to its response form.
func FromDomain(record *domain.ServiceRequest) ServiceRequestResponse {
	return ServiceRequestResponse{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		CreatedDate: record.CreatedDate,
		Status:      record.Status,
		CreatedBy:   record.CreatedBy,
	}
}
