package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/liefcare/workforce-backend/internal/domain/signup"
	"github.com/liefcare/workforce-backend/internal/pkg/database"
)

type signupRequestRepository struct {
	db *database.DB
}

func NewSignupRequestRepository(db *database.DB) signup.RequestRepository {
	return &signupRequestRepository{db: db}
}

const signupRequestColumns = `
	id, name, email, phone, experience, preferred_department, message,
	status, review_notes, reviewed_by, reviewed_at, submitted_at, updated_at
`

func scanSignupRequest(row pgx.Row) (signup.Request, error) {
	var req signup.Request
	err := row.Scan(
		&req.ID, &req.Name, &req.Email, &req.Phone, &req.Experience, &req.PreferredDepartment, &req.Message,
		&req.Status, &req.ReviewNotes, &req.ReviewedBy, &req.ReviewedAt, &req.SubmittedAt, &req.UpdatedAt,
	)
	return req, err
}

// Create implements signup.RequestRepository.
func (r *signupRequestRepository) Create(ctx context.Context, req signup.Request) (signup.Request, error) {
	q := GetQuerier(ctx, r.db)

	if req.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return signup.Request{}, fmt.Errorf("failed to generate signup request id: %w", err)
		}
		req.ID = id.String()
	}

	query := `
		INSERT INTO signup_requests (id, name, email, phone, experience, preferred_department, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + signupRequestColumns

	created, err := scanSignupRequest(q.QueryRow(ctx, query,
		req.ID, req.Name, req.Email, req.Phone, req.Experience, req.PreferredDepartment, req.Message, req.Status,
	))
	if err != nil {
		return signup.Request{}, fmt.Errorf("failed to create signup request: %w", err)
	}
	return created, nil
}

// GetByID implements signup.RequestRepository.
func (r *signupRequestRepository) GetByID(ctx context.Context, id string) (signup.Request, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanSignupRequest(q.QueryRow(ctx, `SELECT `+signupRequestColumns+` FROM signup_requests WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return signup.Request{}, signup.ErrRequestNotFound
		}
		return signup.Request{}, fmt.Errorf("failed to get signup request: %w", err)
	}
	return found, nil
}

// ExistsByEmail implements signup.RequestRepository.
func (r *signupRequestRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM signup_requests WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List implements signup.RequestRepository.
func (r *signupRequestRepository) List(ctx context.Context, filter signup.RequestFilter) ([]signup.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + signupRequestColumns + ` FROM signup_requests`
	args := []interface{}{}
	if filter.Status != nil {
		query += ` WHERE status = $1`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list signup requests: %w", err)
	}
	defer rows.Close()

	requests := []signup.Request{}
	for rows.Next() {
		req, err := scanSignupRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signup request: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signup requests: %w", err)
	}

	return requests, nil
}

// UpdateStatus implements signup.RequestRepository.
func (r *signupRequestRepository) UpdateStatus(ctx context.Context, id string, status signup.Status, reviewNotes *string, reviewedBy *string) (signup.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE signup_requests
		SET status = $1, review_notes = $2, reviewed_by = $3, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $4
		RETURNING ` + signupRequestColumns

	updated, err := scanSignupRequest(q.QueryRow(ctx, query, status, reviewNotes, reviewedBy, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return signup.Request{}, signup.ErrRequestNotFound
		}
		return signup.Request{}, fmt.Errorf("failed to update signup request: %w", err)
	}
	return updated, nil
}
