package memory

import (
	"context"
	"sort"

	"leasehold-backend/internal/domain"
)

type postingRepository struct {
	st *state
}

func (r *postingRepository) Create(ctx context.Context, p *domain.Posting) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	key := p.Asset.Key()
	if _, exists := r.st.assetIndex[key]; exists {
		return domain.ErrAlreadyPosted
	}
	cp := *p
	r.st.postings[p.ID] = &cp
	r.st.assetIndex[key] = p.ID
	return nil
}

func (r *postingRepository) GetByID(ctx context.Context, id uint64) (*domain.Posting, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	p, ok := r.st.postings[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *postingRepository) GetByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Posting, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	id, ok := r.st.assetIndex[asset.Key()]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	cp := *r.st.postings[id]
	return &cp, nil
}

func (r *postingRepository) UpdateRate(ctx context.Context, id, newRate uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.postings[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	p.RatePerBlock = newRate
	return nil
}

func (r *postingRepository) Delete(ctx context.Context, id uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.postings[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	delete(r.st.assetIndex, p.Asset.Key())
	delete(r.st.postings, id)
	return nil
}

func (r *postingRepository) List(ctx context.Context, holder string, page, pageSize int32) ([]domain.Posting, int32, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var all []domain.Posting
	for _, p := range r.st.postings {
		if holder != "" && p.Holder != holder {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int32(len(all))
	start, end := paginate(page, pageSize, total)
	return all[start:end], total, nil
}

func (r *postingRepository) MarkLeased(ctx context.Context, id, earningsDelta uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.postings[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	p.Accessible = false
	p.CumulativeEarnings += earningsDelta
	p.LeaseTransactions++
	return nil
}

func (r *postingRepository) MarkAvailable(ctx context.Context, id uint64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	p, ok := r.st.postings[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	p.Accessible = true
	return nil
}
