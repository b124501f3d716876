package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/timeoff-service/internal/config"
	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/repository"
	apperrors "github.com/spec-kit/timeoff-service/pkg/util"
)

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
			LoginMaxAttempts:      5,
			LoginLockoutMinutes:   15,
		},
	}
}

func newTestAuthService() (*AuthService, repository.UserRepository) {
	users := repository.NewMemoryUserRepository()
	return NewAuthService(testConfig(), users, nil), users
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	user, token, _, err := svc.Register(ctx, "Ann", "ann@co.com", "p")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleEmployee {
		t.Errorf("new accounts must be employees, got %s", user.Role)
	}
	if user.PasswordHash == "p" {
		t.Error("password must not be stored in plain text")
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	// the embedded identifier must resolve back to the same user
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token binds user %d, want %d", claims.UserID, user.ID)
	}

	loggedIn, loginToken, _, err := svc.Login(ctx, "ann@co.com", "p")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login resolved user %d, want %d", loggedIn.ID, user.ID)
	}
	if loginToken == "" {
		t.Error("expected a login token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	if _, _, _, err := svc.Register(ctx, "Ann", "ann@co.com", "p"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, _, err := svc.Register(ctx, "Ann Again", "ann@co.com", "q")
	if err == nil {
		t.Fatal("expected duplicate email to fail")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 422 {
		t.Errorf("expected 422, got %v", err)
	}
	if domainErr.Message != "Email already exists" {
		t.Errorf("unexpected message: %s", domainErr.Message)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	if _, _, _, err := svc.Register(ctx, "Ann", "ann@co.com", "p"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ann@co.com", "nope"},
		{"unknown email", "ghost@co.com", "p"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(ctx, tc.email, tc.password)
			if err == nil {
				t.Fatal("expected login to fail")
			}
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 401 {
				t.Errorf("expected 401, got %v", err)
			}
			if domainErr.Message != "Invalid email or password" {
				t.Errorf("unexpected message: %s", domainErr.Message)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService()

	user, _, _, err := svc.Register(ctx, "Ann", "ann@co.com", "old")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "wrong", "new"); err == nil {
		t.Error("expected change with wrong current password to fail")
	}
	if err := svc.ChangePassword(ctx, user.ID, "old", "new"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, _, _, err := svc.Login(ctx, "ann@co.com", "old"); err == nil {
		t.Error("old password still accepted")
	}
	if _, _, _, err := svc.Login(ctx, "ann@co.com", "new"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
