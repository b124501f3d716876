package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/events"
	"github.com/spec-kit/timeoff-service/internal/repository"
	apperrors "github.com/spec-kit/timeoff-service/pkg/util"
)

// DateLayout is the wire format for start and end dates.
const DateLayout = "2006-01-02"

// RequestService coordinates the time-off request lifecycle.
type RequestService struct {
	requests   repository.RequestRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewRequestService constructs the service.
func NewRequestService(requests repository.RequestRepository, users repository.UserRepository, dispatcher events.Dispatcher) *RequestService {
	return &RequestService{requests: requests, users: users, dispatcher: dispatcher}
}

// SubmitInput describes a new request payload.
type SubmitInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// RequestView is a request joined with its requester's directory record.
type RequestView struct {
	Request   domain.TimeOffRequest
	UserName  string
	UserEmail string
}

// Submit creates a pending request owned by the caller.
func (s *RequestService) Submit(ctx context.Context, requester *domain.User, input SubmitInput) (*RequestView, error) {
	start, err := parseDate(input.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	end, err := parseDate(input.EndDate, "end_date")
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date")
	}

	request := &domain.TimeOffRequest{
		UserID:    requester.ID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(input.Reason),
		Status:    domain.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRequestSubmitted, request.ID, requester.ID, events.RequestSubmittedPayload{
		UserID:    requester.ID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Reason:    request.Reason,
	})

	return &RequestView{Request: *request, UserName: requester.Name, UserEmail: requester.Email}, nil
}

// ListAll returns every request across all users, enriched with requester
// info. Admin only.
func (s *RequestService) ListAll(ctx context.Context, actor *domain.User) ([]RequestView, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("Admin access required")
	}
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, requests)
}

// ListMine returns the caller's own requests, newest first.
func (s *RequestService) ListMine(ctx context.Context, requester *domain.User) ([]RequestView, error) {
	requests, err := s.requests.ListByUser(ctx, requester.ID)
	if err != nil {
		return nil, err
	}
	views := make([]RequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, RequestView{Request: request, UserName: requester.Name, UserEmail: requester.Email})
	}
	return views, nil
}

// Decide transitions a request's status. Admin only. Allowed transitions are
// pending to approved or rejected, and decided back to pending for reversal;
// anything else is a validation failure. The admin note is kept only on
// rejection.
func (s *RequestService) Decide(ctx context.Context, actor *domain.User, requestID int64, status domain.RequestStatus, adminNote *string) (*RequestView, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("Admin access required")
	}
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", status))
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Request")
		}
		return nil, err
	}

	if !transitionAllowed(request.Status, status) {
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot change status from %s to %s", request.Status, status))
	}

	note := adminNote
	if status != domain.RequestStatusRejected {
		note = nil
	}

	updated, err := s.requests.UpdateStatus(ctx, requestID, status, note)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Request")
		}
		return nil, err
	}

	payload := events.RequestDecidedPayload{OldStatus: request.Status, NewStatus: status}
	if note != nil {
		payload.AdminNote = *note
	}
	s.publish(ctx, events.EventRequestDecided, updated.ID, actor.ID, payload)

	owner, err := s.users.GetByID(ctx, updated.UserID)
	if err != nil {
		return nil, err
	}
	return &RequestView{Request: *updated, UserName: owner.Name, UserEmail: owner.Email}, nil
}

func transitionAllowed(from, to domain.RequestStatus) bool {
	switch from {
	case domain.RequestStatusPending:
		return to == domain.RequestStatusApproved || to == domain.RequestStatusRejected
	case domain.RequestStatusApproved, domain.RequestStatusRejected:
		return to == domain.RequestStatusPending
	}
	return false
}

func (s *RequestService) enrich(ctx context.Context, requests []domain.TimeOffRequest) ([]RequestView, error) {
	byID := make(map[int64]*domain.User)
	views := make([]RequestView, 0, len(requests))
	for _, request := range requests {
		owner, ok := byID[request.UserID]
		if !ok {
			var err error
			owner, err = s.users.GetByID(ctx, request.UserID)
			if err != nil {
				return nil, err
			}
			byID[request.UserID] = owner
		}
		views = append(views, RequestView{Request: request, UserName: owner.Name, UserEmail: owner.Email})
	}
	return views, nil
}

func (s *RequestService) publish(ctx context.Context, eventType events.EventType, requestID, actorID int64, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func parseDate(value, field string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field))
	}
	return parsed, nil
}
