package memory

import (
	"context"

	"leasehold-backend/internal/domain"
)

type platformRepository struct {
	st *state
}

func (r *platformRepository) Get(ctx context.Context) (*domain.PlatformState, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	cp := r.st.platform
	return &cp, nil
}

func (r *platformRepository) NextPostID(ctx context.Context) (uint64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	id := r.st.platform.NextPostID
	r.st.platform.NextPostID++
	return id, nil
}

func (r *platformRepository) NextTransactionID(ctx context.Context) (uint64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	id := r.st.platform.NextTransactionID
	r.st.platform.NextTransactionID++
	return id, nil
}

func (r *platformRepository) AddServiceRevenue(ctx context.Context, amount uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.platform.TotalServiceRevenue += amount
	return nil
}

func (r *platformRepository) WithdrawServiceRevenue(ctx context.Context, amount uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if amount > r.st.platform.TotalServiceRevenue {
		return domain.ErrInvalidValue
	}
	r.st.platform.TotalServiceRevenue -= amount
	return nil
}

func (r *platformRepository) SetServiceFee(ctx context.Context, bps uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.platform.ServiceFeeBps = bps
	return nil
}

func (r *platformRepository) SetTermLimits(ctx context.Context, minBlocks, maxBlocks uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	r.st.platform.MinimumLeaseBlocks = minBlocks
	r.st.platform.MaximumLeaseBlocks = maxBlocks
	return nil
}
