package postgres

import (
	"context"
	"database/sql"
	"errors"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) AppendTransaction(ctx context.Context, rec *domain.TransactionRecord) error {
	query := `INSERT INTO transaction_records (record_id, user_id, post_id, activity, block, value) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.User, rec.PostID, rec.Activity, rec.Block, rec.Value)
	return err
}

func (r *historyRepository) ListTransactions(ctx context.Context, user string, page, pageSize int32) ([]domain.TransactionRecord, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM transaction_records WHERE user_id = $1`, user).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT record_id, user_id, post_id, activity, block, value FROM transaction_records WHERE user_id = $1 ORDER BY record_id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, user, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		var rec domain.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.User, &rec.PostID, &rec.Activity, &rec.Block, &rec.Value); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, count, rows.Err()
}

func (r *historyRepository) RecordActivity(ctx context.Context, user string, value uint64, isRevenue bool) error {
	expenditure, revenue := value, uint64(0)
	if isRevenue {
		expenditure, revenue = 0, value
	}
	query := `INSERT INTO user_metrics (user_id, total_transactions, total_expenditure, total_revenue, trust_rating)
	          VALUES ($1, 1, $2, $3, LEAST($4 + $5, $6))
	          ON CONFLICT (user_id) DO UPDATE SET
	            total_transactions = user_metrics.total_transactions + 1,
	            total_expenditure = user_metrics.total_expenditure + EXCLUDED.total_expenditure,
	            total_revenue = user_metrics.total_revenue + EXCLUDED.total_revenue,
	            trust_rating = LEAST(user_metrics.trust_rating + $5, $6)`
	_, err := r.db.ExecContext(ctx, query, user, expenditure, revenue, domain.InitialTrustRating, domain.TrustRatingStep, domain.MaxTrustRating)
	return err
}

func (r *historyRepository) GetMetrics(ctx context.Context, user string) (*domain.UserMetrics, error) {
	m := &domain.UserMetrics{}
	query := `SELECT user_id, total_transactions, total_expenditure, total_revenue, trust_rating FROM user_metrics WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, user).Scan(&m.User, &m.TotalTransactions, &m.TotalExpenditure, &m.TotalRevenue, &m.TrustRating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return m, nil
}
