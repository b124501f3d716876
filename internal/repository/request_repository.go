package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timeoff-service/internal/domain"
)

// RequestRepository encapsulates time-off request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.TimeOffRequest) error
	GetByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error)
	List(ctx context.Context) ([]domain.TimeOffRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.TimeOffRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus, adminNote *string) (*domain.TimeOffRequest, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository returns a Postgres-backed implementation.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

func (r *requestRepository) Create(ctx context.Context, request *domain.TimeOffRequest) error {
	const query = `
        INSERT INTO time_off_requests (user_id, start_date, end_date, reason, status, admin_note)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		request.UserID,
		request.StartDate,
		request.EndDate,
		request.Reason,
		request.Status,
		request.AdminNote,
	).Scan(&request.ID, &request.CreatedAt)
}

func (r *requestRepository) GetByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	const query = `
        SELECT id, user_id, start_date, end_date, reason, status, admin_note, created_at
        FROM time_off_requests WHERE id=$1`

	var request domain.TimeOffRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.UserID,
		&request.StartDate,
		&request.EndDate,
		&request.Reason,
		&request.Status,
		&request.AdminNote,
		&request.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) List(ctx context.Context) ([]domain.TimeOffRequest, error) {
	const query = `
        SELECT id, user_id, start_date, end_date, reason, status, admin_note, created_at
        FROM time_off_requests ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.TimeOffRequest, error) {
	const query = `
        SELECT id, user_id, start_date, end_date, reason, status, admin_note, created_at
        FROM time_off_requests WHERE user_id=$1
        ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus, adminNote *string) (*domain.TimeOffRequest, error) {
	const query = `
        UPDATE time_off_requests SET status=$1, admin_note=$2
        WHERE id=$3
        RETURNING id, user_id, start_date, end_date, reason, status, admin_note, created_at`

	var request domain.TimeOffRequest
	if err := r.pool.QueryRow(ctx, query, status, adminNote, id).Scan(
		&request.ID,
		&request.UserID,
		&request.StartDate,
		&request.EndDate,
		&request.Reason,
		&request.Status,
		&request.AdminNote,
		&request.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func scanRequests(rows pgx.Rows) ([]domain.TimeOffRequest, error) {
	var result []domain.TimeOffRequest
	for rows.Next() {
		var request domain.TimeOffRequest
		if err := rows.Scan(
			&request.ID,
			&request.UserID,
			&request.StartDate,
			&request.EndDate,
			&request.Reason,
			&request.Status,
			&request.AdminNote,
			&request.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
