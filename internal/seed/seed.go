package seed

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/timeoff-service/internal/auth"
	"github.com/spec-kit/timeoff-service/internal/config"
	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/repository"
)

// EnsureInitialAdmin creates the configured admin account when it does not
// exist yet. This replaces the original's unauthenticated make_admin
// endpoint with an out-of-band bootstrap.
func EnsureInitialAdmin(ctx context.Context, users repository.UserRepository, cfg config.InitialAdminConfig, bcryptCost int, logger *zap.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("initial admin not configured; skipping bootstrap")
		return nil
	}

	if existing, err := users.GetByEmail(ctx, cfg.Email); err == nil {
		if !existing.IsAdmin() {
			return users.UpdateRole(ctx, existing.ID, domain.RoleAdmin)
		}
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Password, bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("initial admin created", zap.String("email", cfg.Email))
	return nil
}

// SeedSampleData inserts a demo employee with one pending vacation request.
func SeedSampleData(ctx context.Context, users repository.UserRepository, requests repository.RequestRepository, bcryptCost int, logger *zap.Logger) error {
	const demoEmail = "john@company.com"

	if _, err := users.GetByEmail(ctx, demoEmail); err == nil {
		logger.Info("sample data already present; skipping")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword("password123", bcryptCost)
	if err != nil {
		return err
	}

	employee := &domain.User{
		Name:         "John Doe",
		Email:        demoEmail,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}
	if err := users.Create(ctx, employee); err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	request := &domain.TimeOffRequest{
		UserID:    employee.ID,
		StartDate: today.AddDate(0, 0, 7),
		EndDate:   today.AddDate(0, 0, 10),
		Reason:    "Family vacation",
		Status:    domain.RequestStatusPending,
	}
	if err := requests.Create(ctx, request); err != nil {
		return err
	}

	logger.Info("sample data created",
		zap.String("employee", demoEmail),
		zap.Int64("request_id", request.ID),
	)
	return nil
}

// PromoteByEmail grants the admin role to an existing user.
func PromoteByEmail(ctx context.Context, users repository.UserRepository, email string) error {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return users.UpdateRole(ctx, user.ID, domain.RoleAdmin)
}
