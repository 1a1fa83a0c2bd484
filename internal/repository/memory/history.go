package memory

import (
	"context"

	"leasehold-backend/internal/domain"
)

type historyRepository struct {
	st *state
}

func (r *historyRepository) AppendTransaction(ctx context.Context, rec *domain.TransactionRecord) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.records[rec.User] = append(r.st.records[rec.User], *rec)
	return nil
}

func (r *historyRepository) ListTransactions(ctx context.Context, user string, page, pageSize int32) ([]domain.TransactionRecord, int32, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	recs := r.st.records[user]
	total := int32(len(recs))
	start, end := paginate(page, pageSize, total)

	// Newest first.
	out := make([]domain.TransactionRecord, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, recs[total-1-i])
	}
	return out, total, nil
}

func (r *historyRepository) RecordActivity(ctx context.Context, user string, value uint64, isRevenue bool) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	m, ok := r.st.metrics[user]
	if !ok {
		m = &domain.UserMetrics{User: user, TrustRating: domain.InitialTrustRating}
		r.st.metrics[user] = m
	}
	m.Record(value, isRevenue)
	return nil
}

func (r *historyRepository) GetMetrics(ctx context.Context, user string) (*domain.UserMetrics, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	m, ok := r.st.metrics[user]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *m
	return &cp, nil
}
