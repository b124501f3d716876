package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/timeoff-service/internal/auth"
	"github.com/spec-kit/timeoff-service/internal/config"
	"github.com/spec-kit/timeoff-service/internal/domain"
	"github.com/spec-kit/timeoff-service/internal/repository"
	apperrors "github.com/spec-kit/timeoff-service/pkg/util"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	redisClient *redis.Client
	bcryptCost  int
	maxAttempts int
	lockout     time.Duration
}

// NewAuthService builds the service. The redis client is optional; without
// it the login throttle is disabled.
func NewAuthService(cfg config.Config, users repository.UserRepository, redisClient *redis.Client) *AuthService {
	return &AuthService{
		users:       users,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		redisClient: redisClient,
		bcryptCost:  cfg.Auth.BcryptCost,
		maxAttempts: cfg.Auth.LoginMaxAttempts,
		lockout:     time.Duration(cfg.Auth.LoginLockoutMinutes) * time.Minute,
	}
}

// Register creates a new employee account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, email and password are required")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates a user by credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	if err := s.checkThrottle(ctx, email); err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordFailure(ctx, email)
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("Invalid email or password")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.recordFailure(ctx, email)
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("Invalid email or password")
	}

	s.clearFailures(ctx, email)

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthenticated("Invalid current password")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func throttleKey(email string) string {
	return fmt.Sprintf("login_attempts_%s", strings.ToLower(email))
}

func (s *AuthService) checkThrottle(ctx context.Context, email string) error {
	if s.redisClient == nil || s.maxAttempts <= 0 {
		return nil
	}
	attempts, err := s.redisClient.Get(ctx, throttleKey(email)).Int()
	if err != nil {
		// missing key or unreachable redis both mean no lockout
		return nil
	}
	if attempts >= s.maxAttempts {
		return apperrors.NewDomainError("RATE_LIMITED", "Too many failed login attempts", 429)
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.redisClient == nil {
		return
	}
	key := throttleKey(email)
	if err := s.redisClient.Incr(ctx, key).Err(); err != nil {
		return
	}
	s.redisClient.Expire(ctx, key, s.lockout)
}

func (s *AuthService) clearFailures(ctx context.Context, email string) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Del(ctx, throttleKey(email))
}
