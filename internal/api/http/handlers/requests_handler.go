package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timeoff-service/internal/api/dto"
	"github.com/spec-kit/timeoff-service/internal/auth"
	"github.com/spec-kit/timeoff-service/internal/service"
	apperrors "github.com/spec-kit/timeoff-service/pkg/util"
)

// RequestsHandler manages time-off request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// Create handles POST /time_off_requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("No token provided")
	}

	var req dto.CreateRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	view, err := h.service.Submit(c.Context(), principal.User, service.SubmitInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRequestResponse(view))
}

// ListAll handles GET /time_off_requests. Admin only; the response is a
// top-level JSON array for frontend compatibility.
func (h *RequestsHandler) ListAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("No token provided")
	}

	views, err := h.service.ListAll(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRequestResponses(views))
}

// ListMine handles GET /my_requests.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("No token provided")
	}

	views, err := h.service.ListMine(c.Context(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRequestResponses(views))
}

// UpdateStatus handles PATCH /time_off_requests/:id/status. Admin only.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthenticated("No token provided")
	}

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewNotFound("Request")
	}

	var req dto.UpdateStatusPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	view, err := h.service.Decide(c.Context(), principal.User, id, req.Status, req.AdminNote)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewRequestResponse(view))
}
