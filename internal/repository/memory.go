package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/timeoff-service/internal/domain"
)

// The memory drivers keep their collections and counters behind a single
// mutex each, because list, append and find-then-mutate are not atomic as
// composed under concurrent request handling. Lookups return copies so no
// live handle to stored state ever escapes; all mutations go through the
// repository operations.

type memoryUserRepository struct {
	mu     sync.Mutex
	users  []domain.User
	nextID int64
}

// NewMemoryUserRepository returns an in-memory implementation. State is
// process-local and lost on restart.
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{nextID: 1}
}

func (r *memoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepository) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].Email == email {
			user := r.users[i]
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.User, len(r.users))
	copy(result, r.users)
	return result, nil
}

func (r *memoryUserRepository) UpdateRole(_ context.Context, id int64, role domain.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].Role = role
			return nil
		}
	}
	return ErrNotFound
}

func (r *memoryUserRepository) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return ErrNotFound
}

type memoryRequestRepository struct {
	mu       sync.Mutex
	requests []domain.TimeOffRequest
	nextID   int64
}

// NewMemoryRequestRepository returns an in-memory implementation.
func NewMemoryRequestRepository() RequestRepository {
	return &memoryRequestRepository{nextID: 1}
}

func (r *memoryRequestRepository) Create(_ context.Context, request *domain.TimeOffRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	request.ID = r.nextID
	r.nextID++
	request.CreatedAt = time.Now()
	r.requests = append(r.requests, *request)
	return nil
}

func (r *memoryRequestRepository) GetByID(_ context.Context, id int64) (*domain.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			request := r.requests[i]
			return &request, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryRequestRepository) List(_ context.Context) ([]domain.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.TimeOffRequest, len(r.requests))
	copy(result, r.requests)
	return result, nil
}

func (r *memoryRequestRepository) ListByUser(_ context.Context, userID int64) ([]domain.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []domain.TimeOffRequest
	for i := range r.requests {
		if r.requests[i].UserID == userID {
			result = append(result, r.requests[i])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryRequestRepository) UpdateStatus(_ context.Context, id int64, status domain.RequestStatus, adminNote *string) (*domain.TimeOffRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests[i].Status = status
			r.requests[i].AdminNote = adminNote
			request := r.requests[i]
			return &request, nil
		}
	}
	return nil, ErrNotFound
}
