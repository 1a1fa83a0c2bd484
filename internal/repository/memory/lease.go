package memory

import (
	"context"
	"sort"

	"leasehold-backend/internal/domain"
)

type leaseRepository struct {
	st *state
}

func (r *leaseRepository) Get(ctx context.Context, postID uint64) (*domain.Lease, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	l, ok := r.st.leases[postID]
	if !ok {
		return nil, domain.ErrLeaseEnded
	}
	cp := *l
	return &cp, nil
}

func (r *leaseRepository) Open(ctx context.Context, l *domain.Lease) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.leases[l.PostID]; exists {
		return domain.ErrLeaseInProgress
	}
	cp := *l
	r.st.leases[l.PostID] = &cp
	return nil
}

func (r *leaseRepository) Close(ctx context.Context, postID uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, exists := r.st.leases[postID]; !exists {
		return domain.ErrLeaseEnded
	}
	delete(r.st.leases, postID)
	return nil
}

func (r *leaseRepository) ListExpired(ctx context.Context, height uint64) ([]domain.Lease, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var expired []domain.Lease
	for _, l := range r.st.leases {
		if l.ExpiredAt(height) {
			expired = append(expired, *l)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].PostID < expired[j].PostID })
	return expired, nil
}
