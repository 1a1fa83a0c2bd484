package postgres

import (
	"context"
	"database/sql"
	"errors"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

type leaseRepository struct {
	db *sql.DB
}

func NewLeaseRepository(db *sql.DB) repository.LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) Get(ctx context.Context, postID uint64) (*domain.Lease, error) {
	l := &domain.Lease{}
	query := `SELECT post_id, lessee, begin_block, expire_block, amount_paid, deposit_amount FROM leases WHERE post_id = $1`
	err := r.db.QueryRowContext(ctx, query, postID).Scan(&l.PostID, &l.Lessee, &l.BeginBlock, &l.ExpireBlock, &l.AmountPaid, &l.DepositAmount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLeaseEnded
		}
		return nil, err
	}
	return l, nil
}

func (r *leaseRepository) Open(ctx context.Context, l *domain.Lease) error {
	query := `INSERT INTO leases (post_id, lessee, begin_block, expire_block, amount_paid, deposit_amount) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, l.PostID, l.Lessee, l.BeginBlock, l.ExpireBlock, l.AmountPaid, l.DepositAmount)
	if isUniqueViolation(err) {
		return domain.ErrLeaseInProgress
	}
	return err
}

func (r *leaseRepository) Close(ctx context.Context, postID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leases WHERE post_id = $1`, postID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrLeaseEnded
	}
	return nil
}

func (r *leaseRepository) ListExpired(ctx context.Context, height uint64) ([]domain.Lease, error) {
	query := `SELECT post_id, lessee, begin_block, expire_block, amount_paid, deposit_amount FROM leases WHERE expire_block <= $1 ORDER BY post_id`
	rows, err := r.db.QueryContext(ctx, query, height)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leases []domain.Lease
	for rows.Next() {
		var l domain.Lease
		if err := rows.Scan(&l.PostID, &l.Lessee, &l.BeginBlock, &l.ExpireBlock, &l.AmountPaid, &l.DepositAmount); err != nil {
			return nil, err
		}
		leases = append(leases, l)
	}
	return leases, rows.Err()
}
