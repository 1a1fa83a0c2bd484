package service

import (
	"context"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/repository"
)

type metricsService struct {
	historyRepo repository.HistoryRepository
	gateway     ledger.Gateway
}

func NewMetricsService(historyRepo repository.HistoryRepository, gateway ledger.Gateway) MetricsService {
	return &metricsService{historyRepo: historyRepo, gateway: gateway}
}

func (s *metricsService) GetUserMetrics(ctx context.Context, user string) (*domain.UserMetrics, error) {
	return s.historyRepo.GetMetrics(ctx, user)
}

func (s *metricsService) ListTransactions(ctx context.Context, user string, page, pageSize int32) ([]domain.TransactionRecord, int32, error) {
	return s.historyRepo.ListTransactions(ctx, user, page, pageSize)
}

func (s *metricsService) GetBalance(ctx context.Context, user string) (uint64, error) {
	return s.gateway.Balance(ctx, user)
}
