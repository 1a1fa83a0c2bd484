package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

type postingRepository struct {
	db *sql.DB
}

func NewPostingRepository(db *sql.DB) repository.PostingRepository {
	return &postingRepository{db: db}
}

const postingColumns = `id, asset_contract, asset_id, holder, rate_per_block, minimum_term, maximum_term, accessible, cumulative_earnings, lease_transactions, posted_at`

func scanPosting(row interface{ Scan(...any) error }) (*domain.Posting, error) {
	p := &domain.Posting{}
	err := row.Scan(&p.ID, &p.Asset.Contract, &p.Asset.AssetID, &p.Holder, &p.RatePerBlock, &p.MinimumTerm, &p.MaximumTerm, &p.Accessible, &p.CumulativeEarnings, &p.LeaseTransactions, &p.PostedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postingRepository) Create(ctx context.Context, p *domain.Posting) error {
	query := `INSERT INTO postings (id, asset_contract, asset_id, holder, rate_per_block, minimum_term, maximum_term, accessible, cumulative_earnings, lease_transactions, posted_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Asset.Contract, p.Asset.AssetID, p.Holder, p.RatePerBlock, p.MinimumTerm, p.MaximumTerm, p.Accessible, p.CumulativeEarnings, p.LeaseTransactions, p.PostedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyPosted
	}
	return err
}

func (r *postingRepository) GetByID(ctx context.Context, id uint64) (*domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE id = $1`
	return scanPosting(r.db.QueryRowContext(ctx, query, id))
}

func (r *postingRepository) GetByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE asset_contract = $1 AND asset_id = $2`
	return scanPosting(r.db.QueryRowContext(ctx, query, asset.Contract, asset.AssetID))
}

func (r *postingRepository) UpdateRate(ctx context.Context, id, newRate uint64) error {
	query := `UPDATE postings SET rate_per_block = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, newRate, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postingRepository) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM postings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postingRepository) List(ctx context.Context, holder string, page, pageSize int32) ([]domain.Posting, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + postingColumns + ` FROM postings`
	countQuery := `SELECT count(*) FROM postings`
	args := []interface{}{}
	argIdx := 1
	if holder != "" {
		query += fmt.Sprintf(" WHERE holder = $%d", argIdx)
		countQuery += fmt.Sprintf(" WHERE holder = $%d", argIdx)
		args = append(args, holder)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var postings []domain.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, 0, err
		}
		postings = append(postings, *p)
	}
	return postings, count, rows.Err()
}

func (r *postingRepository) MarkLeased(ctx context.Context, id, earningsDelta uint64) error {
	query := `UPDATE postings SET accessible = FALSE, cumulative_earnings = cumulative_earnings + $1, lease_transactions = lease_transactions + 1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, earningsDelta, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postingRepository) MarkAvailable(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE postings SET accessible = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
