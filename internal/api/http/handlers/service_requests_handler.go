package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-request-manager/internal/api/dto"
	"github.com/spec-kit/service-request-manager/internal/auth"
	"github.com/spec-kit/service-request-manager/internal/service"
	apperrors "github.com/spec-kit/service-request-manager/pkg/util"
)

// ServiceRequestsHandler manages the CRUD endpoints.
type ServiceRequestsHandler struct {
	service *service.RequestService
}

// NewServiceRequestsHandler constructs handler.
func NewServiceRequestsHandler(requestService *service.RequestService) *ServiceRequestsHandler {
	return &ServiceRequestsHandler{service: requestService}
}

// List GET /api/servicerequests?statusFilter=.
func (h *ServiceRequestsHandler) List(c *fiber.Ctx) error {
	records, err := h.service.List(c.Context(), c.Query("statusFilter"))
	if err != nil {
		return err
	}

	items := make([]dto.ServiceRequestResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.FromDomain(&records[i]))
	}
	return c.JSON(items)
}

// Get GET /api/servicerequests/:id.
func (h *ServiceRequestsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	record, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromDomain(record))
}

// Create POST /api/servicerequests.
func (h *ServiceRequestsHandler) Create(c *fiber.Ctx) error {
	var req dto.ServiceRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.Create(c.Context(), actorName(c), req.ToDomain())
	if err != nil {
		return err
	}

	c.Location(fmt.Sprintf("/api/servicerequests/%d", record.ID))
	return c.Status(http.StatusCreated).JSON(dto.FromDomain(record))
}

// Replace PUT /api/servicerequests/:id.
func (h *ServiceRequestsHandler) Replace(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.ServiceRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.Replace(c.Context(), actorName(c), id, req.ToDomain()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete DELETE /api/servicerequests/:id.
func (h *ServiceRequestsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), actorName(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func actorName(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.Username
	}
	return ""
}
