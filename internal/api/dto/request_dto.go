package dto

import (
	"time"

	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/service"
)

// CreateRequestPayload is the submit payload. Dates use YYYY-MM-DD.
type CreateRequestPayload struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// UpdateStatusPayload is the decision payload.
type UpdateStatusPayload struct {
	Status    domain.RequestStatus `json:"status"`
	AdminNote *string              `json:"admin_note"`
}

// RequestResponse mirrors the request view consumed by the frontend.
type RequestResponse struct {
	ID        int64                `json:"id"`
	UserName  string               `json:"user_name"`
	UserEmail string               `json:"user_email"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Reason    string               `json:"reason"`
	Status    domain.RequestStatus `json:"status"`
	AdminNote *string              `json:"admin_note"`
	CreatedAt time.Time            `json:"created_at"`
}

// NewRequestResponse maps an enriched request view to the wire format.
func NewRequestResponse(view *service.RequestView) RequestResponse {
	return RequestResponse{
		ID:        view.Request.ID,
		UserName:  view.UserName,
		UserEmail: view.UserEmail,
		StartDate: view.Request.StartDate.Format(service.DateLayout),
		EndDate:   view.Request.EndDate.Format(service.DateLayout),
		Reason:    view.Request.Reason,
		Status:    view.Request.Status,
		AdminNote: view.Request.AdminNote,
		CreatedAt: view.Request.CreatedAt,
	}
}

// NewRequestResponses maps a slice of views.
func NewRequestResponses(views []service.RequestView) []RequestResponse {
	items := make([]RequestResponse, 0, len(views))
	for i := range views {
		items = append(items, NewRequestResponse(&views[i]))
	}
	return items
}
