package service

import (
	"context"
	"fmt"
	"sync"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/logger"
	"leasehold-backend/internal/repository"
)

type adminService struct {
	platformRepo repository.PlatformRepository
	gateway      ledger.Gateway
	custody      string
	admin        string
	mu           *sync.Mutex
}

func NewAdminService(
	platformRepo repository.PlatformRepository,
	gateway ledger.Gateway,
	custody, admin string,
	mu *sync.Mutex,
) AdminService {
	return &adminService{
		platformRepo: platformRepo,
		gateway:      gateway,
		custody:      custody,
		admin:        admin,
		mu:           mu,
	}
}

func (s *adminService) SetServiceFee(ctx context.Context, caller string, bps uint64) error {
	if caller != s.admin {
		return domain.ErrAdminOnly
	}
	if bps > domain.MaxServiceFeeBps {
		return domain.ErrInvalidValue
	}
	if err := s.platformRepo.SetServiceFee(ctx, bps); err != nil {
		return err
	}
	logger.Info("service fee updated", "bps", bps)
	return nil
}

func (s *adminService) SetTermLimits(ctx context.Context, caller string, minBlocks, maxBlocks uint64) error {
	if caller != s.admin {
		return domain.ErrAdminOnly
	}
	if minBlocks == 0 || minBlocks >= maxBlocks {
		return domain.ErrInvalidTimeframe
	}
	if err := s.platformRepo.SetTermLimits(ctx, minBlocks, maxBlocks); err != nil {
		return err
	}
	logger.Info("term limits updated", "min_blocks", minBlocks, "max_blocks", maxBlocks)
	return nil
}

func (s *adminService) WithdrawServiceFees(ctx context.Context, caller string, amount uint64) error {
	if caller != s.admin {
		return domain.ErrAdminOnly
	}
	if amount == 0 {
		return domain.ErrInvalidValue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read platform state: %w", err)
	}
	if amount > state.TotalServiceRevenue {
		return domain.ErrInvalidValue
	}

	if err := s.gateway.Transfer(ctx, amount, s.custody, s.admin); err != nil {
		return fmt.Errorf("revenue withdrawal failed: %w", err)
	}
	if err := s.platformRepo.WithdrawServiceRevenue(ctx, amount); err != nil {
		return err
	}

	logger.Info("service revenue withdrawn", "amount", amount)
	return nil
}

func (s *adminService) PlatformStatistics(ctx context.Context) (*domain.PlatformStatistics, error) {
	state, err := s.platformRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.PlatformStatistics{
		TotalPostings: state.NextPostID - 1,
		TotalRevenue:  state.TotalServiceRevenue,
		FeeBps:        state.ServiceFeeBps,
	}, nil
}
