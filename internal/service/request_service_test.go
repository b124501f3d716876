package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/events"
	"github.com/spec-kit/timeoff-service/internal/repository"
	apperrors "github.com/spec-kit/timeoff-service/pkg/util"
)

type requestFixture struct {
	svc      *RequestService
	users    repository.UserRepository
	requests repository.RequestRepository
	admin    *domain.User
	employee *domain.User
	other    *domain.User
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	ctx := context.Background()

	users := repository.NewMemoryUserRepository()
	requests := repository.NewMemoryRequestRepository()

	admin := &domain.User{Name: "Admin User", Email: "admin@company.com", Role: domain.RoleAdmin}
	employee := &domain.User{Name: "Ann", Email: "ann@co.com", Role: domain.RoleEmployee}
	other := &domain.User{Name: "Bob", Email: "bob@co.com", Role: domain.RoleEmployee}
	for _, u := range []*domain.User{admin, employee, other} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("Create user: %v", err)
		}
	}

	return &requestFixture{
		svc:      NewRequestService(requests, users, events.NewInMemoryDispatcher()),
		users:    users,
		requests: requests,
		admin:    admin,
		employee: employee,
		other:    other,
	}
}

func validStatusCode(t *testing.T, err error, want int) {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.HTTPStatus != want {
		t.Errorf("expected status %d, got %d (%s)", want, domainErr.HTTPStatus, domainErr.Message)
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	view, err := f.svc.Submit(ctx, f.employee, SubmitInput{StartDate: "2025-01-10", EndDate: "2025-01-12", Reason: "trip"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if view.Request.Status != domain.RequestStatusPending {
		t.Errorf("new requests must be pending, got %s", view.Request.Status)
	}
	if view.Request.UserID != f.employee.ID {
		t.Errorf("request owned by %d, want %d", view.Request.UserID, f.employee.ID)
	}
	if view.UserName != "Ann" || view.UserEmail != "ann@co.com" {
		t.Errorf("unexpected requester info: %s %s", view.UserName, view.UserEmail)
	}

	second, err := f.svc.Submit(ctx, f.employee, SubmitInput{StartDate: "2025-02-01", EndDate: "2025-02-02"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if second.Request.ID <= view.Request.ID {
		t.Errorf("ids must be strictly increasing: %d then %d", view.Request.ID, second.Request.ID)
	}

	// round trip: the stored record matches what was submitted
	stored, err := f.requests.GetByID(ctx, view.Request.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.StartDate.Format(DateLayout) != "2025-01-10" ||
		stored.EndDate.Format(DateLayout) != "2025-01-12" ||
		stored.Reason != "trip" ||
		stored.Status != domain.RequestStatusPending {
		t.Errorf("round trip mismatch: %+v", stored)
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	cases := []struct {
		name  string
		input SubmitInput
	}{
		{"missing start", SubmitInput{EndDate: "2025-01-12"}},
		{"missing end", SubmitInput{StartDate: "2025-01-10"}},
		{"malformed start", SubmitInput{StartDate: "01/10/2025", EndDate: "2025-01-12"}},
		{"malformed end", SubmitInput{StartDate: "2025-01-10", EndDate: "next week"}},
		{"start after end", SubmitInput{StartDate: "2025-01-12", EndDate: "2025-01-10"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Submit(ctx, f.employee, tc.input)
			if err == nil {
				t.Fatal("expected validation failure")
			}
			validStatusCode(t, err, 422)
		})
	}
}

func TestListMineIsolation(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	if _, err := f.svc.Submit(ctx, f.employee, SubmitInput{StartDate: "2025-01-10", EndDate: "2025-01-12"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.other, SubmitInput{StartDate: "2025-03-01", EndDate: "2025-03-05"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, f.employee)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 request, got %d", len(mine))
	}
	for _, view := range mine {
		if view.Request.UserID != f.employee.ID {
			t.Errorf("foreign request %d leaked into list_mine", view.Request.ID)
		}
	}

	all, err := f.svc.ListAll(ctx, f.admin)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected union of all requests, got %d", len(all))
	}
	for _, view := range all {
		if view.UserName == "" || view.UserEmail == "" {
			t.Errorf("request %d missing requester info", view.Request.ID)
		}
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	_, err := f.svc.ListAll(ctx, f.employee)
	if err == nil {
		t.Fatal("expected Forbidden")
	}
	validStatusCode(t, err, 403)
}

func TestDecideRequiresAdminAndLeavesTargetUnmodified(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	view, err := f.svc.Submit(ctx, f.employee, SubmitInput{StartDate: "2025-01-10", EndDate: "2025-01-12"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	_, err = f.svc.Decide(ctx, f.other, view.Request.ID, domain.RequestStatusApproved, nil)
	if err == nil {
		t.Fatal("expected Forbidden for non-admin caller")
	}
	validStatusCode(t, err, 403)

	stored, err := f.requests.GetByID(ctx, view.Request.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.RequestStatusPending {
		t.Errorf("denied decision must not modify the request, status %s", stored.Status)
	}
}

func TestDecideTransitions(t *testing.T) {
	ctx := context.Background()
	f := newRequestFixture(t)

	submit := func() int64 {
		view, err := f.svc.Submit(ctx, f.employee, SubmitInput{StartDate: "2025-01-10", EndDate: "2025-01-12"})
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		return view.Request.ID
	}

	t.Run("approve", func(t *testing.T) {
		id := submit()
		view, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusApproved, nil)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if view.Request.Status != domain.RequestStatusApproved {
			t.Errorf("unexpected status %s", view.Request.Status)
		}
	})

	t.Run("reject keeps note", func(t *testing.T) {
		id := submit()
		note := "blackout week"
		view, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusRejected, &note)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if view.Request.AdminNote == nil || *view.Request.AdminNote != note {
			t.Errorf("admin note not kept on rejection: %v", view.Request.AdminNote)
		}
	})

	t.Run("approve drops note", func(t *testing.T) {
		id := submit()
		note := "should not persist"
		view, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusApproved, &note)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if view.Request.AdminNote != nil {
			t.Errorf("admin note must be kept only on rejection, got %q", *view.Request.AdminNote)
		}
	})

	t.Run("re-deciding a decided request fails", func(t *testing.T) {
		id := submit()
		if _, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusApproved, nil); err != nil {
			t.Fatalf("Decide: %v", err)
		}
		_, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusRejected, nil)
		if err == nil {
			t.Fatal("expected transition to be refused")
		}
		validStatusCode(t, err, 422)
	})

	t.Run("reversal to pending", func(t *testing.T) {
		id := submit()
		if _, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusApproved, nil); err != nil {
			t.Fatalf("Decide: %v", err)
		}
		view, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatusPending, nil)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if view.Request.Status != domain.RequestStatusPending {
			t.Errorf("unexpected status %s", view.Request.Status)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		id := submit()
		_, err := f.svc.Decide(ctx, f.admin, id, domain.RequestStatus("escalated"), nil)
		if err == nil {
			t.Fatal("expected validation failure")
		}
		validStatusCode(t, err, 422)
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := f.svc.Decide(ctx, f.admin, 9999, domain.RequestStatusApproved, nil)
		if err == nil {
			t.Fatal("expected NotFound")
		}
		validStatusCode(t, err, 404)
	})
}
