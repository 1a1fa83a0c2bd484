package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"leasehold-backend/internal/assets"
	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/repository"
)

type listingService struct {
	postingRepo  repository.PostingRepository
	leaseRepo    repository.LeaseRepository
	platformRepo repository.PlatformRepository
	registry     assets.Registry // nil: posters are trusted
	clock        chain.Clock
	mu           *sync.Mutex // engine guard, shared with the lease service
}

func NewListingService(
	postingRepo repository.PostingRepository,
	leaseRepo repository.LeaseRepository,
	platformRepo repository.PlatformRepository,
	registry assets.Registry,
	clock chain.Clock,
	mu *sync.Mutex,
) ListingService {
	return &listingService{
		postingRepo:  postingRepo,
		leaseRepo:    leaseRepo,
		platformRepo: platformRepo,
		registry:     registry,
		clock:        clock,
		mu:           mu,
	}
}

func (s *listingService) PostAsset(ctx context.Context, holder string, asset domain.AssetRef, ratePerBlock, minTerm, maxTerm uint64) (*domain.Posting, error) {
	if ratePerBlock == 0 {
		return nil, domain.ErrInvalidValue
	}

	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform state: %w", err)
	}
	if minTerm < state.MinimumLeaseBlocks || maxTerm > state.MaximumLeaseBlocks || minTerm > maxTerm {
		return nil, domain.ErrInvalidTimeframe
	}

	// Ownership verification runs only when a registry is configured; the
	// platform otherwise trusts the poster.
	if s.registry != nil {
		owner, err := s.registry.Owner(ctx, asset)
		if err != nil || owner != holder {
			return nil, domain.ErrAssetNotControlled
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.postingRepo.GetByAsset(ctx, asset); err == nil {
		return nil, domain.ErrAlreadyPosted
	} else if !errors.Is(err, domain.ErrItemNotFound) {
		return nil, err
	}

	id, err := s.platformRepo.NextPostID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate posting id: %w", err)
	}

	p := &domain.Posting{
		ID:           id,
		Asset:        asset,
		Holder:       holder,
		RatePerBlock: ratePerBlock,
		MinimumTerm:  minTerm,
		MaximumTerm:  maxTerm,
		Accessible:   true,
		PostedAt:     s.clock.Height(),
	}
	if err := s.postingRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *listingService) UpdateLeaseRate(ctx context.Context, caller string, postID, newRate uint64) (*domain.Posting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.postingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if p.Holder != caller {
		return nil, domain.ErrAccessDenied
	}
	if err := s.requireNoLease(ctx, postID); err != nil {
		return nil, err
	}
	if newRate == 0 {
		return nil, domain.ErrInvalidValue
	}

	if err := s.postingRepo.UpdateRate(ctx, postID, newRate); err != nil {
		return nil, err
	}
	p.RatePerBlock = newRate
	return p, nil
}

func (s *listingService) RemovePosting(ctx context.Context, caller string, postID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.postingRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.Holder != caller {
		return domain.ErrAccessDenied
	}
	if err := s.requireNoLease(ctx, postID); err != nil {
		return err
	}

	return s.postingRepo.Delete(ctx, postID)
}

func (s *listingService) GetPosting(ctx context.Context, postID uint64) (*domain.Posting, error) {
	return s.postingRepo.GetByID(ctx, postID)
}

func (s *listingService) GetPostingByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Posting, error) {
	return s.postingRepo.GetByAsset(ctx, asset)
}

func (s *listingService) ListPostings(ctx context.Context, holder string, page, pageSize int32) ([]domain.Posting, int32, error) {
	return s.postingRepo.List(ctx, holder, page, pageSize)
}

func (s *listingService) TotalPostings(ctx context.Context) (uint64, error) {
	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return state.NextPostID - 1, nil
}

// requireNoLease fails with ErrLeaseInProgress while a lease is open for
// the posting.
func (s *listingService) requireNoLease(ctx context.Context, postID uint64) error {
	_, err := s.leaseRepo.Get(ctx, postID)
	if err == nil {
		return domain.ErrLeaseInProgress
	}
	if errors.Is(err, domain.ErrLeaseEnded) {
		return nil
	}
	return err
}
