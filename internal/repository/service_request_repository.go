package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/service-request-manager/internal/domain"
)

// Sentinel errors surfaced by repositories regardless of the backing store.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("concurrent update conflict")
)

// ServiceRequestRepository encapsulates service request persistence. Any keyed
// store with equality filtering can satisfy it.
type ServiceRequestRepository interface {
	List(ctx context.Context, statusFilter string) ([]domain.ServiceRequest, error)
	Get(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	Create(ctx context.Context, request *domain.ServiceRequest) error
	Replace(ctx context.Context, request *domain.ServiceRequest) error
	Delete(ctx context.Context, id int64) error
}

type serviceRequestRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRequestRepository returns a Postgres-backed implementation.
func NewServiceRequestRepository(pool *pgxpool.Pool) ServiceRequestRepository {
	return &serviceRequestRepository{pool: pool}
}

func (r *serviceRequestRepository) List(ctx context.Context, statusFilter string) ([]domain.ServiceRequest, error) {
	const base = `
        SELECT id, title, description, created_date, status, created_by
        FROM service_requests`

	var (
		rows pgx.Rows
		err  error
	)
	if statusFilter != "" {
		rows, err = r.pool.Query(ctx, base+` WHERE LOWER(status) = LOWER($1)`, statusFilter)
	} else {
		rows, err = r.pool.Query(ctx, base)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServiceRequests(rows)
}

func (r *serviceRequestRepository) Get(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	const query = `
        SELECT id, title, description, created_date, status, created_by
        FROM service_requests WHERE id=$1`

	var request domain.ServiceRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&request.ID,
		&request.Title,
		&request.Description,
		&request.CreatedDate,
		&request.Status,
		&request.CreatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *serviceRequestRepository) Create(ctx context.Context, request *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (title, description, created_date, status, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		request.Title,
		request.Description,
		request.CreatedDate,
		request.Status,
		request.CreatedBy,
	).Scan(&request.ID)
}

func (r *serviceRequestRepository) Replace(ctx context.Context, request *domain.ServiceRequest) error {
	const query = `
        UPDATE service_requests
        SET title=$1, description=$2, created_date=$3, status=$4, created_by=$5
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		request.Title,
		request.Description,
		request.CreatedDate,
		request.Status,
		request.CreatedBy,
		request.ID,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return ErrConflict
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRequestRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM service_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isSerializationFailure matches the Postgres conflict classes that signal a
// concurrent write lost the race: serialization_failure and deadlock_detected.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func scanServiceRequests(rows pgx.Rows) ([]domain.ServiceRequest, error) {
	var result []domain.ServiceRequest
	for rows.Next() {
		var request domain.ServiceRequest
		if err := rows.Scan(
			&request.ID,
			&request.Title,
			&request.Description,
			&request.CreatedDate,
			&request.Status,
			&request.CreatedBy,
		); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
