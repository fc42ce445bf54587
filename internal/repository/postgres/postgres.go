package postgres

import (
	"database/sql"

	"github.com/PatrickVM/in-house-open-sub001/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ChurchRepository
	repository.VerificationRequestRepository
	repository.MemberVerificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                            db,
		UserRepository:                NewUserRepository(db),
		ChurchRepository:              NewChurchRepository(db),
		VerificationRequestRepository: NewVerificationRequestRepository(db),
		MemberVerificationRepository:  NewMemberVerificationRepository(db),
	}
}
