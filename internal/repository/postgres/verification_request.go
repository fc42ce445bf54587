package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

const requestColumns = `id, user_id, church_id, requester_id, status, note,
	verifier_id, created_at, verified_at, rejected_at`

type verificationRequestRepository struct {
	db *sql.DB
}

func NewVerificationRequestRepository(db *sql.DB) repository.VerificationRequestRepository {
	return &verificationRequestRepository{db: db}
}

func scanRequest(row interface{ Scan(...any) error }) (*domain.VerificationRequest, error) {
	req := &domain.VerificationRequest{}
	err := row.Scan(&req.ID, &req.UserID, &req.ChurchID, &req.RequesterID,
		&req.Status, &req.Note, &req.VerifierID, &req.CreatedAt,
		&req.VerifiedAt, &req.RejectedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *verificationRequestRepository) Create(ctx context.Context, req *domain.VerificationRequest) error {
	query := `INSERT INTO verification_requests (user_id, church_id, requester_id, status, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, req.UserID, req.ChurchID,
		req.RequesterID, req.Status, req.Note, req.CreatedAt).Scan(&req.ID)
}

func (r *verificationRequestRepository) GetByID(ctx context.Context, id int32) (*domain.VerificationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM verification_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *verificationRequestRepository) GetPendingByUser(ctx context.Context, userID, churchID int32) (*domain.VerificationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM verification_requests
	          WHERE user_id = $1 AND church_id = $2 AND status = $3
	          ORDER BY created_at DESC LIMIT 1`
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, userID, churchID,
		domain.VerificationRequestStatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *verificationRequestRepository) ListPendingForVoter(ctx context.Context, churchID, voterID int32) ([]domain.VerificationRequest, error) {
	// Stable ordering matters: rotation assignment is computed from the
	// position of each request in this list.
	query := `SELECT ` + requestColumns + ` FROM verification_requests vr
	          WHERE vr.church_id = $1
	            AND vr.status = $2
	            AND vr.user_id <> $3
	            AND NOT EXISTS (
	                SELECT 1 FROM member_verifications mv
	                WHERE mv.request_id = vr.id AND mv.verifier_id = $3
	            )
	          ORDER BY vr.created_at, vr.id`
	rows, err := r.db.QueryContext(ctx, query, churchID,
		domain.VerificationRequestStatusPending, voterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.VerificationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *verificationRequestRepository) Resolve(ctx context.Context, req *domain.VerificationRequest) error {
	query := `UPDATE verification_requests
	          SET status = $1, verifier_id = $2, note = $3, verified_at = $4, rejected_at = $5
	          WHERE id = $6 AND status = $7`
	res, err := r.db.ExecContext(ctx, query, req.Status, req.VerifierID, req.Note,
		req.VerifiedAt, req.RejectedAt, req.ID, domain.VerificationRequestStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrRequestResolved
	}
	return nil
}
