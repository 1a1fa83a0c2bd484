package memory

import (
	"sync"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

// state is the shared in-memory dataset: the posting registry, the active
// lease registry, per-user history and metrics, and the platform singleton,
// all under one mutex so each repository call is atomic on its own.
type state struct {
	mu sync.RWMutex

	postings   map[uint64]*domain.Posting
	assetIndex map[string]uint64 // asset key -> posting id
	leases     map[uint64]*domain.Lease
	records    map[string][]domain.TransactionRecord
	metrics    map[string]*domain.UserMetrics
	platform   domain.PlatformState
}

type Store struct {
	repository.PostingRepository
	repository.LeaseRepository
	repository.HistoryRepository
	repository.PlatformRepository
}

// NewStore builds the in-memory backend. The platform singleton is seeded
// from the configured fee percentage and term bounds; both id counters
// start at 1.
func NewStore(serviceFeeBps, minLeaseBlocks, maxLeaseBlocks uint64) *Store {
	st := &state{
		postings:   make(map[uint64]*domain.Posting),
		assetIndex: make(map[string]uint64),
		leases:     make(map[uint64]*domain.Lease),
		records:    make(map[string][]domain.TransactionRecord),
		metrics:    make(map[string]*domain.UserMetrics),
		platform: domain.PlatformState{
			NextPostID:         1,
			NextTransactionID:  1,
			ServiceFeeBps:      serviceFeeBps,
			MinimumLeaseBlocks: minLeaseBlocks,
			MaximumLeaseBlocks: maxLeaseBlocks,
		},
	}
	return &Store{
		PostingRepository:  &postingRepository{st: st},
		LeaseRepository:    &leaseRepository{st: st},
		HistoryRepository:  &historyRepository{st: st},
		PlatformRepository: &platformRepository{st: st},
	}
}

func paginate(page, pageSize, total int32) (start, end int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
