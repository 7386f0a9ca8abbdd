package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/service-request-manager/internal/domain"
	"github.com/spec-kit/service-request-manager/internal/events"
	"github.com/spec-kit/service-request-manager/internal/repository"
	apperrors "github.com/spec-kit/service-request-manager/pkg/util"
)

// RequestService implements service request CRUD over a keyed store. No
// operation retries; every storage fault surfaces directly.
type RequestService struct {
	requests   repository.ServiceRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRequestService builds the service.
func NewRequestService(requests repository.ServiceRequestRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RequestService {
	return &RequestService{requests: requests, dispatcher: dispatcher, logger: logger}
}

// List returns all records, optionally narrowed to a case-insensitive status
// match. Ordering is store-natural.
func (s *RequestService) List(ctx context.Context, statusFilter string) ([]domain.ServiceRequest, error) {
	s.logger.Info("fetching service requests", zap.String("status_filter", statusFilter))

	records, err := s.requests.List(ctx, statusFilter)
	if err != nil {
		s.logger.Error("list service requests failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	if records == nil {
		records = []domain.ServiceRequest{}
	}
	return records, nil
}

// Get returns the single record for the id.
func (s *RequestService) Get(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	record, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("service request not found", zap.Int64("id", id))
			return nil, apperrors.NewNotFound("service request", map[string]any{"id": id})
		}
		s.logger.Error("get service request failed", zap.Int64("id", id), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	return record, nil
}

// Create persists a new record. CreatedDate is server-assigned UTC regardless
// of client input, and an empty status defaults to "Open".
func (s *RequestService) Create(ctx context.Context, actor string, record *domain.ServiceRequest) (*domain.ServiceRequest, error) {
	s.logger.Info("creating service request", zap.String("title", record.Title))

	record.ID = 0
	record.CreatedDate = time.Now().UTC()
	if record.Status == "" {
		record.Status = domain.DefaultStatus
	}
	if err := validateServiceRequest(record); err != nil {
		return nil, err
	}

	if err := s.requests.Create(ctx, record); err != nil {
		s.logger.Error("create service request failed", zap.String("title", record.Title), zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("service request created", zap.Int64("id", record.ID), zap.String("title", record.Title))
	s.publish(ctx, events.EventRequestCreated, record.ID, actor, events.RequestCreatedPayload{
		Title:  record.Title,
		Status: record.Status,
	})
	return record, nil
}

// Replace overwrites a record wholesale, except CreatedDate and CreatedBy are
// reset to the persisted originals: those fields are write-once and
// server-authoritative. Body/path ID disagreement fails before any storage
// access.
func (s *RequestService) Replace(ctx context.Context, actor string, id int64, record *domain.ServiceRequest) error {
	s.logger.Info("updating service request", zap.Int64("id", id))

	if record.ID != id {
		s.logger.Warn("mismatched id in update",
			zap.Int64("path_id", id),
			zap.Int64("body_id", record.ID))
		return apperrors.NewIDMismatch(id, record.ID)
	}

	existing, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("service request not found for update", zap.Int64("id", id))
			return apperrors.NewNotFound("service request", map[string]any{"id": id})
		}
		s.logger.Error("load service request for update failed", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	record.CreatedDate = existing.CreatedDate
	record.CreatedBy = existing.CreatedBy
	if err := validateServiceRequest(record); err != nil {
		return err
	}

	if err := s.requests.Replace(ctx, record); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return s.resolveConflict(ctx, id, err)
		case errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("service request vanished during update", zap.Int64("id", id))
			return apperrors.NewNotFound("service request", map[string]any{"id": id})
		default:
			s.logger.Error("update service request failed", zap.Int64("id", id), zap.Error(err))
			return apperrors.NewInternalError(err)
		}
	}

	s.logger.Info("service request updated", zap.Int64("id", id))
	s.publish(ctx, events.EventRequestUpdated, id, actor, events.RequestUpdatedPayload{
		Title:     record.Title,
		OldStatus: existing.Status,
		NewStatus: record.Status,
	})
	return nil
}

// Delete removes the record.
func (s *RequestService) Delete(ctx context.Context, actor string, id int64) error {
	s.logger.Info("deleting service request", zap.Int64("id", id))

	existing, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("service request not found for deletion", zap.Int64("id", id))
			return apperrors.NewNotFound("service request", map[string]any{"id": id})
		}
		s.logger.Error("load service request for deletion failed", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("service request", map[string]any{"id": id})
		}
		s.logger.Error("delete service request failed", zap.Int64("id", id), zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	s.logger.Info("service request deleted", zap.Int64("id", id))
	s.publish(ctx, events.EventRequestDeleted, id, actor, events.RequestDeletedPayload{
		Title: existing.Title,
	})
	return nil
}

// resolveConflict disambiguates a store-level conflict: a vanished record is a
// NOT_FOUND, a record that still exists is a genuine conflict. The conflict is
// fatal for this request; nothing is retried.
func (s *RequestService) resolveConflict(ctx context.Context, id int64, cause error) error {
	if _, err := s.requests.Get(ctx, id); errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("service request not found during conflict check", zap.Int64("id", id))
		return apperrors.NewNotFound("service request", map[string]any{"id": id})
	}
	s.logger.Error("concurrent update conflict", zap.Int64("id", id), zap.Error(cause))
	return apperrors.NewConflict("service request was modified concurrently", map[string]any{"id": id})
}

func (s *RequestService) publish(ctx context.Context, eventType events.EventType, id int64, actor string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: id,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

func validateServiceRequest(record *domain.ServiceRequest) error {
	details := map[string]any{}
	if strings.TrimSpace(record.Title) == "" {
		details["title"] = "required"
	} else if len(record.Title) > domain.MaxTitleLength {
		details["title"] = "too long"
	}
	if strings.TrimSpace(record.Description) == "" {
		details["description"] = "required"
	}
	if strings.TrimSpace(record.Status) == "" {
		details["status"] = "required"
	} else if len(record.Status) > domain.MaxStatusLength {
		details["status"] = "too long"
	}
	if strings.TrimSpace(record.CreatedBy) == "" {
		details["createdBy"] = "required"
	} else if len(record.CreatedBy) > domain.MaxCreatedByLength {
		details["createdBy"] = "too long"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid service request", details)
	}
	return nil
}
