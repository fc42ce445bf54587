package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised when the
// (request_id, verifier_id) unique constraint rejects a second vote.
const uniqueViolation = "23505"

type memberVerificationRepository struct {
	db *sql.DB
}

func NewMemberVerificationRepository(db *sql.DB) repository.MemberVerificationRepository {
	return &memberVerificationRepository{db: db}
}

func (r *memberVerificationRepository) Create(ctx context.Context, v *domain.MemberVerification) error {
	query := `INSERT INTO member_verifications (request_id, verifier_id, action, note, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, v.RequestID, v.VerifierID, v.Action,
		v.Note, v.CreatedAt).Scan(&v.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return domain.ErrDuplicateVote
	}
	return err
}

func (r *memberVerificationRepository) HasVoted(ctx context.Context, requestID, verifierID int32) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM member_verifications
	            WHERE request_id = $1 AND verifier_id = $2
	          )`
	var voted bool
	if err := r.db.QueryRowContext(ctx, query, requestID, verifierID).Scan(&voted); err != nil {
		return false, err
	}
	return voted, nil
}

func (r *memberVerificationRepository) CountByAction(ctx context.Context, requestID int32, action domain.VoteAction) (int32, error) {
	query := `SELECT COUNT(*) FROM member_verifications
	          WHERE request_id = $1 AND action = $2`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, requestID, action).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *memberVerificationRepository) ListByRequest(ctx context.Context, requestID int32) ([]domain.MemberVerification, error) {
	query := `SELECT id, request_id, verifier_id, action, note, created_at
	          FROM member_verifications WHERE request_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []domain.MemberVerification
	for rows.Next() {
		var v domain.MemberVerification
		if err := rows.Scan(&v.ID, &v.RequestID, &v.VerifierID, &v.Action, &v.Note, &v.CreatedAt); err != nil {
			return nil, err
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
