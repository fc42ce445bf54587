package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

const userColumns = `id, email, first_name, last_name, membership_status, church_id,
	verified_at, join_requested_at, last_status_change_at, enforcement_exempt,
	account_active, disabled_reason, warning_sent_at, created_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var reason sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.MembershipStatus,
		&u.ChurchID, &u.VerifiedAt, &u.JoinRequestedAt, &u.LastStatusChange,
		&u.EnforcementExempt, &u.AccountActive, &reason, &u.WarningSentAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		r := domain.DisabledReason(reason.String)
		u.DisabledReason = &r
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) SetMembershipRequested(ctx context.Context, userID int32, at time.Time) error {
	query := `UPDATE users
	          SET membership_status = $1, join_requested_at = $2,
	              last_status_change_at = $2, warning_sent_at = NULL
	          WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, domain.MembershipStatusRequested, at, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) PromoteToVerified(ctx context.Context, userID, churchID int32, at time.Time) (bool, error) {
	// Conditional update keeps promotion a no-op once the user is VERIFIED,
	// which makes concurrent quorum evaluations race-safe.
	query := `UPDATE users
	          SET membership_status = $1, church_id = $2, verified_at = $3,
	              last_status_change_at = $3, warning_sent_at = NULL
	          WHERE id = $4 AND membership_status <> $1`
	res, err := r.db.ExecContext(ctx, query, domain.MembershipStatusVerified, churchID, at, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) MarkRejected(ctx context.Context, userID int32, at time.Time) error {
	query := `UPDATE users
	          SET membership_status = $1, church_id = NULL,
	              last_status_change_at = $2, warning_sent_at = NULL
	          WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, domain.MembershipStatusRejected, at, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListEnforceable(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE account_active = TRUE
	            AND enforcement_exempt = FALSE
	            AND membership_status <> $1
	          ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.MembershipStatusVerified)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) StampWarningSent(ctx context.Context, userID int32, at time.Time) (bool, error) {
	query := `UPDATE users SET warning_sent_at = $1
	          WHERE id = $2 AND warning_sent_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, at, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) DisableAccount(ctx context.Context, userID int32, reason domain.DisabledReason, at time.Time) (bool, error) {
	query := `UPDATE users SET account_active = FALSE, disabled_reason = $1
	          WHERE id = $2 AND account_active = TRUE`
	res, err := r.db.ExecContext(ctx, query, reason, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) SetEnforcementExempt(ctx context.Context, userID int32, exempt bool) error {
	query := `UPDATE users SET enforcement_exempt = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, exempt, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Reactivate(ctx context.Context, userID int32) error {
	// Clears the enforcement outcome but not the clock anchors; only a fresh
	// status transition resets those.
	query := `UPDATE users
	          SET account_active = TRUE, disabled_reason = NULL, warning_sent_at = NULL
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) CountEligibleVoters(ctx context.Context, churchID int32, cutoff time.Time) (int32, error) {
	query := `SELECT COUNT(*) FROM users
	          WHERE church_id = $1
	            AND membership_status = $2
	            AND verified_at <= $3
	            AND account_active = TRUE`
	var count int32
	err := r.db.QueryRowContext(ctx, query, churchID, domain.MembershipStatusVerified, cutoff).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
