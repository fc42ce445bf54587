package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/PatrickVM/in-house-open-sub001/internal/domain"
	"github.com/PatrickVM/in-house-open-sub001/internal/repository"
)

type churchRepository struct {
	db *sql.DB
}

func NewChurchRepository(db *sql.DB) repository.ChurchRepository {
	return &churchRepository{db: db}
}

func (r *churchRepository) GetByID(ctx context.Context, id int32) (*domain.Church, error) {
	c := &domain.Church{}
	query := `SELECT id, name, address, city, state, lead_contact_id,
	                 min_verifications_required, created_at
	          FROM churches WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Address,
		&c.City, &c.State, &c.LeadContactID, &c.MinVerificationsRequired, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrChurchNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.MinVerificationsRequired <= 0 {
		c.MinVerificationsRequired = domain.DefaultMinVerifications
	}
	return c, nil
}

func (r *churchRepository) UpdateMinVerifications(ctx context.Context, churchID, min int32) error {
	query := `UPDATE churches SET min_verifications_required = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, min, churchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrChurchNotFound
	}
	return nil
}
