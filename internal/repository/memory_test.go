package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/timeoff-service/internal/domain"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	first := &domain.User{Name: "Ann", Email: "ann@co.com", PasswordHash: "h", Role: domain.RoleEmployee}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &domain.User{Name: "Bob", Email: "bob@co.com", PasswordHash: "h", Role: domain.RoleEmployee}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("expected sequential ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	byEmail, err := repo.GetByEmail(ctx, "ann@co.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != first.ID {
		t.Errorf("unexpected user: got id %d, want %d", byEmail.ID, first.ID)
	}

	if _, err := repo.GetByID(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Errorf("expected insertion order listing, got %+v", all)
	}
}

func TestMemoryUserRepositoryReturnsSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Name: "Ann", Email: "ann@co.com", Role: domain.RoleEmployee}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Role = domain.RoleAdmin

	again, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.Role != domain.RoleEmployee {
		t.Error("mutating a returned record must not change stored state")
	}

	if err := repo.UpdateRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	promoted, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if promoted.Role != domain.RoleAdmin {
		t.Errorf("expected admin role after UpdateRole, got %s", promoted.Role)
	}
}

func TestMemoryRequestRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepository()

	mk := func(userID int64) *domain.TimeOffRequest {
		req := &domain.TimeOffRequest{
			UserID:    userID,
			StartDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
			Reason:    "trip",
			Status:    domain.RequestStatusPending,
		}
		if err := repo.Create(ctx, req); err != nil {
			t.Fatalf("Create: %v", err)
		}
		return req
	}

	a := mk(1)
	b := mk(1)
	c := mk(2)

	if a.ID >= b.ID || b.ID >= c.ID {
		t.Errorf("expected strictly increasing ids, got %d %d %d", a.ID, b.ID, c.ID)
	}
	if a.CreatedAt.IsZero() {
		t.Error("expected created timestamp to be set")
	}

	mine, err := repo.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 requests for user 1, got %d", len(mine))
	}
	if mine[0].ID != b.ID || mine[1].ID != a.ID {
		t.Errorf("expected newest first, got ids %d %d", mine[0].ID, mine[1].ID)
	}
	for _, req := range mine {
		if req.UserID != 1 {
			t.Errorf("request %d belongs to user %d, want 1", req.ID, req.UserID)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 requests in total, got %d", len(all))
	}
}

func TestMemoryRequestRepositoryUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepository()

	req := &domain.TimeOffRequest{UserID: 1, Status: domain.RequestStatusPending}
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	note := "overlapping with team offsite"
	updated, err := repo.UpdateStatus(ctx, req.ID, domain.RequestStatusRejected, &note)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.RequestStatusRejected {
		t.Errorf("unexpected status: %s", updated.Status)
	}
	if updated.AdminNote == nil || *updated.AdminNote != note {
		t.Errorf("unexpected admin note: %v", updated.AdminNote)
	}

	stored, err := repo.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != domain.RequestStatusRejected {
		t.Errorf("update not persisted, status %s", stored.Status)
	}

	if _, err := repo.UpdateStatus(ctx, 999, domain.RequestStatusApproved, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}
