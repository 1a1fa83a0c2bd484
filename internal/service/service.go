package service

import (
	"context"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/utils"
)

type ListingService interface {
	PostAsset(ctx context.Context, holder string, asset domain.AssetRef, ratePerBlock, minTerm, maxTerm uint64) (*domain.Posting, error)
	UpdateLeaseRate(ctx context.Context, caller string, postID, newRate uint64) (*domain.Posting, error)
	RemovePosting(ctx context.Context, caller string, postID uint64) error
	GetPosting(ctx context.Context, postID uint64) (*domain.Posting, error)
	GetPostingByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Posting, error)
	ListPostings(ctx context.Context, holder string, page, pageSize int32) ([]domain.Posting, int32, error)
	TotalPostings(ctx context.Context) (uint64, error)
}

type LeaseService interface {
	LeaseAsset(ctx context.Context, lessee string, postID, term uint64) (*domain.LeaseReceipt, error)
	ReturnAsset(ctx context.Context, caller string, postID uint64) error
	AutoReturnExpired(ctx context.Context, postID uint64) error
	ResolveConflict(ctx context.Context, caller string, postID uint64, returnDepositToLessee bool) error
	GetCurrentLease(ctx context.Context, postID uint64) (*domain.Lease, error)
	EstimateLease(ctx context.Context, postID, term uint64) (*utils.LeaseQuote, error)
	IsLeaseExpired(ctx context.Context, postID uint64) (bool, error)
}

type MetricsService interface {
	GetUserMetrics(ctx context.Context, user string) (*domain.UserMetrics, error)
	ListTransactions(ctx context.Context, user string, page, pageSize int32) ([]domain.TransactionRecord, int32, error)
	GetBalance(ctx context.Context, user string) (uint64, error)
}

type AdminService interface {
	SetServiceFee(ctx context.Context, caller string, bps uint64) error
	SetTermLimits(ctx context.Context, caller string, minBlocks, maxBlocks uint64) error
	WithdrawServiceFees(ctx context.Context, caller string, amount uint64) error
	PlatformStatistics(ctx context.Context) (*domain.PlatformStatistics, error)
}

type AuthService interface {
	// Login authenticates the platform admin and returns an admin token.
	Login(ctx context.Context, userID, password string) (string, error)
	// IssueUserToken mints a caller-identity token; admin-gated.
	IssueUserToken(ctx context.Context, caller, userID string) (string, error)
}
