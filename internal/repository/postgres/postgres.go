package postgres

import (
	"database/sql"
	"errors"

	"leasehold-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.PostingRepository
	repository.LeaseRepository
	repository.HistoryRepository
	repository.PlatformRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		PostingRepository:  NewPostingRepository(db),
		LeaseRepository:    NewLeaseRepository(db),
		HistoryRepository:  NewHistoryRepository(db),
		PlatformRepository: NewPlatformRepository(db),
	}
}

// isUniqueViolation reports whether the error is a postgres duplicate-key
// failure (the uniqueness constraints back the asset index and the
// single-active-lease rule).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
