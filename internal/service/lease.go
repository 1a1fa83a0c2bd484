package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/repository"
	"leasehold-backend/internal/utils"
)

// leaseService is the lifecycle engine. Every write operation validates all
// preconditions first, then performs ledger transfers (the only failable
// effects), then applies registry mutations, so a failure anywhere leaves
// no partial state behind. The engine mutex serializes write operations:
// no interleaving of two originations, returns or disputes is observable.
type leaseService struct {
	postingRepo  repository.PostingRepository
	leaseRepo    repository.LeaseRepository
	historyRepo  repository.HistoryRepository
	platformRepo repository.PlatformRepository
	gateway      ledger.Gateway
	clock        chain.Clock
	custody      string
	admin        string
	mu           *sync.Mutex
}

func NewLeaseService(
	postingRepo repository.PostingRepository,
	leaseRepo repository.LeaseRepository,
	historyRepo repository.HistoryRepository,
	platformRepo repository.PlatformRepository,
	gateway ledger.Gateway,
	clock chain.Clock,
	custody, admin string,
	mu *sync.Mutex,
) LeaseService {
	return &leaseService{
		postingRepo:  postingRepo,
		leaseRepo:    leaseRepo,
		historyRepo:  historyRepo,
		platformRepo: platformRepo,
		gateway:      gateway,
		clock:        clock,
		custody:      custody,
		admin:        admin,
		mu:           mu,
	}
}

func (s *leaseService) LeaseAsset(ctx context.Context, lessee string, postID, term uint64) (*domain.LeaseReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.postingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	// An open lease outranks the accessible flag: a second lease attempt
	// reports the lease, not the flag it implies.
	if _, err := s.leaseRepo.Get(ctx, postID); err == nil {
		return nil, domain.ErrLeaseInProgress
	} else if !errors.Is(err, domain.ErrLeaseEnded) {
		return nil, err
	}
	if !p.Accessible {
		return nil, domain.ErrNotAccessible
	}
	if term < p.MinimumTerm || term > p.MaximumTerm {
		return nil, domain.ErrInvalidTimeframe
	}
	if lessee == p.Holder {
		return nil, domain.ErrAccessDenied
	}

	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read platform state: %w", err)
	}
	quote, err := utils.QuoteLease(p.RatePerBlock, term, state.ServiceFeeBps)
	if err != nil {
		return nil, err
	}
	now := s.clock.Height()

	// Value movement: lessee funds expense plus deposit into custody, the
	// holder is paid net of the service fee, the fee and deposit stay in
	// custody. The first transfer is the only one that can fail for funds.
	if err := s.gateway.Transfer(ctx, quote.TotalPayment, lessee, s.custody); err != nil {
		return nil, err
	}
	if err := s.gateway.Transfer(ctx, quote.HolderPayment, s.custody, p.Holder); err != nil {
		return nil, fmt.Errorf("holder payout failed: %w", err)
	}

	l := &domain.Lease{
		PostID:        postID,
		Lessee:        lessee,
		BeginBlock:    now,
		ExpireBlock:   now + term,
		AmountPaid:    quote.TotalExpense,
		DepositAmount: quote.Deposit,
	}
	if err := s.leaseRepo.Open(ctx, l); err != nil {
		return nil, err
	}
	if err := s.postingRepo.MarkLeased(ctx, postID, quote.HolderPayment); err != nil {
		return nil, err
	}

	txID, err := s.platformRepo.NextTransactionID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	rec := &domain.TransactionRecord{
		ID:       txID,
		User:     lessee,
		PostID:   postID,
		Activity: domain.ActivityLeased,
		Block:    now,
		Value:    quote.TotalExpense,
	}
	if err := s.historyRepo.AppendTransaction(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.historyRepo.RecordActivity(ctx, lessee, quote.TotalExpense, false); err != nil {
		return nil, err
	}
	if err := s.historyRepo.RecordActivity(ctx, p.Holder, quote.HolderPayment, true); err != nil {
		return nil, err
	}
	if err := s.platformRepo.AddServiceRevenue(ctx, quote.ServiceFee); err != nil {
		return nil, err
	}

	logger.Info("lease originated",
		"post_id", postID,
		"lessee", lessee,
		"term", term,
		"expire_block", l.ExpireBlock,
		"total_payment", quote.TotalPayment)

	return &domain.LeaseReceipt{
		TransactionID: txID,
		ExpireBlock:   l.ExpireBlock,
		Deposit:       quote.Deposit,
	}, nil
}

func (s *leaseService) ReturnAsset(ctx context.Context, caller string, postID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.leaseRepo.Get(ctx, postID)
	if err != nil {
		return err
	}
	if l.Lessee != caller {
		return domain.ErrAccessDenied
	}

	// Early return is permitted; no expiry check.
	if err := s.gateway.Transfer(ctx, l.DepositAmount, s.custody, caller); err != nil {
		return fmt.Errorf("deposit release failed: %w", err)
	}
	if err := s.closeLease(ctx, postID); err != nil {
		return err
	}

	txID, err := s.platformRepo.NextTransactionID(ctx)
	if err != nil {
		return fmt.Errorf("failed to allocate transaction id: %w", err)
	}
	rec := &domain.TransactionRecord{
		ID:       txID,
		User:     caller,
		PostID:   postID,
		Activity: domain.ActivityReturned,
		Block:    s.clock.Height(),
		Value:    0,
	}
	if err := s.historyRepo.AppendTransaction(ctx, rec); err != nil {
		return err
	}

	logger.Info("asset returned", "post_id", postID, "lessee", caller, "deposit", l.DepositAmount)
	return nil
}

func (s *leaseService) AutoReturnExpired(ctx context.Context, postID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.leaseRepo.Get(ctx, postID)
	if err != nil {
		return err
	}
	if !l.ExpiredAt(s.clock.Height()) {
		return domain.ErrLeaseInProgress
	}

	// Same deposit release and reset as a voluntary return, but callable by
	// anyone and without a history record.
	if err := s.gateway.Transfer(ctx, l.DepositAmount, s.custody, l.Lessee); err != nil {
		return fmt.Errorf("deposit release failed: %w", err)
	}
	if err := s.closeLease(ctx, postID); err != nil {
		return err
	}

	logger.Info("expired lease reclaimed", "post_id", postID, "lessee", l.Lessee, "deposit", l.DepositAmount)
	return nil
}

func (s *leaseService) ResolveConflict(ctx context.Context, caller string, postID uint64, returnDepositToLessee bool) error {
	if caller != s.admin {
		return domain.ErrAdminOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.leaseRepo.Get(ctx, postID)
	if err != nil {
		return err
	}
	p, err := s.postingRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	recipient := p.Holder
	if returnDepositToLessee {
		recipient = l.Lessee
	}
	if err := s.gateway.Transfer(ctx, l.DepositAmount, s.custody, recipient); err != nil {
		return fmt.Errorf("deposit release failed: %w", err)
	}
	if err := s.closeLease(ctx, postID); err != nil {
		return err
	}

	logger.Info("conflict resolved",
		"post_id", postID,
		"deposit_recipient", recipient,
		"deposit", l.DepositAmount)
	return nil
}

func (s *leaseService) GetCurrentLease(ctx context.Context, postID uint64) (*domain.Lease, error) {
	return s.leaseRepo.Get(ctx, postID)
}

func (s *leaseService) EstimateLease(ctx context.Context, postID, term uint64) (*utils.LeaseQuote, error) {
	p, err := s.postingRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if term < p.MinimumTerm || term > p.MaximumTerm {
		return nil, domain.ErrInvalidTimeframe
	}
	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	// Same computation as LeaseAsset with the fee in effect right now, so
	// the estimate matches what a lease would actually charge.
	return utils.QuoteLease(p.RatePerBlock, term, state.ServiceFeeBps)
}

func (s *leaseService) IsLeaseExpired(ctx context.Context, postID uint64) (bool, error) {
	l, err := s.leaseRepo.Get(ctx, postID)
	if err != nil {
		return false, err
	}
	return l.ExpiredAt(s.clock.Height()), nil
}

// closeLease deletes the lease and flips the posting accessible again.
func (s *leaseService) closeLease(ctx context.Context, postID uint64) error {
	if err := s.leaseRepo.Close(ctx, postID); err != nil {
		return err
	}
	return s.postingRepo.MarkAvailable(ctx, postID)
}
