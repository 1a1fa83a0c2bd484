package postgres

import (
	"context"
	"database/sql"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

// The platform state is a singleton row (id = 1), created by the schema
// migration with the configured fee and term bounds.
type platformRepository struct {
	db *sql.DB
}

func NewPlatformRepository(db *sql.DB) repository.PlatformRepository {
	return &platformRepository{db: db}
}

func (r *platformRepository) Get(ctx context.Context) (*domain.PlatformState, error) {
	st := &domain.PlatformState{}
	query := `SELECT next_post_id, next_transaction_id, service_fee_bps, minimum_lease_blocks, maximum_lease_blocks, total_service_revenue FROM platform_state WHERE id = 1`
	err := r.db.QueryRowContext(ctx, query).Scan(&st.NextPostID, &st.NextTransactionID, &st.ServiceFeeBps, &st.MinimumLeaseBlocks, &st.MaximumLeaseBlocks, &st.TotalServiceRevenue)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *platformRepository) NextPostID(ctx context.Context) (uint64, error) {
	var next uint64
	query := `UPDATE platform_state SET next_post_id = next_post_id + 1 WHERE id = 1 RETURNING next_post_id - 1`
	if err := r.db.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *platformRepository) NextTransactionID(ctx context.Context) (uint64, error) {
	var next uint64
	query := `UPDATE platform_state SET next_transaction_id = next_transaction_id + 1 WHERE id = 1 RETURNING next_transaction_id - 1`
	if err := r.db.QueryRowContext(ctx, query).Scan(&next); err != nil {
		return 0, err
	}
	return next, nil
}

func (r *platformRepository) AddServiceRevenue(ctx context.Context, amount uint64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE platform_state SET total_service_revenue = total_service_revenue + $1 WHERE id = 1`, amount)
	return err
}

func (r *platformRepository) WithdrawServiceRevenue(ctx context.Context, amount uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE platform_state SET total_service_revenue = total_service_revenue - $1 WHERE id = 1 AND total_service_revenue >= $1`, amount)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvalidValue
	}
	return nil
}

func (r *platformRepository) SetServiceFee(ctx context.Context, bps uint64) error {
	return r.execOne(ctx, `UPDATE platform_state SET service_fee_bps = $1 WHERE id = 1`, bps)
}

func (r *platformRepository) SetTermLimits(ctx context.Context, minBlocks, maxBlocks uint64) error {
	return r.execOne(ctx, `UPDATE platform_state SET minimum_lease_blocks = $1, maximum_lease_blocks = $2 WHERE id = 1`, minBlocks, maxBlocks)
}

func (r *platformRepository) execOne(ctx context.Context, query string, args ...any) error {
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
