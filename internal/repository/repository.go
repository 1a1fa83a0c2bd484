package repository

import (
	"context"

	"leasehold-backend/internal/domain"
)

type PostingRepository interface {
	// Create inserts a new posting and indexes its asset. Fails with
	// ErrAlreadyPosted if the asset is already indexed.
	Create(ctx context.Context, p *domain.Posting) error
	GetByID(ctx context.Context, id uint64) (*domain.Posting, error)
	GetByAsset(ctx context.Context, asset domain.AssetRef) (*domain.Posting, error)
	UpdateRate(ctx context.Context, id, newRate uint64) error
	// Delete removes the posting and its asset index entry.
	Delete(ctx context.Context, id uint64) error
	// List returns postings newest first, optionally filtered by holder.
	List(ctx context.Context, holder string, page, pageSize int32) ([]domain.Posting, int32, error)

	// MarkLeased flips the posting inaccessible and credits the holder
	// payout to its lifetime counters. MarkAvailable flips it back.
	// Both are lifecycle-engine internals.
	MarkLeased(ctx context.Context, id, earningsDelta uint64) error
	MarkAvailable(ctx context.Context, id uint64) error
}

type LeaseRepository interface {
	// Get returns the open lease for a posting, or ErrLeaseEnded when none
	// exists.
	Get(ctx context.Context, postID uint64) (*domain.Lease, error)
	// Open inserts a lease. Fails with ErrLeaseInProgress if one already
	// exists for the posting.
	Open(ctx context.Context, l *domain.Lease) error
	// Close deletes the lease; ErrLeaseEnded if absent.
	Close(ctx context.Context, postID uint64) error
	// ListExpired returns all open leases with expireBlock ≤ height.
	ListExpired(ctx context.Context, height uint64) ([]domain.Lease, error)
}

type HistoryRepository interface {
	// AppendTransaction inserts an immutable record; the caller assigns the
	// id from the platform counter.
	AppendTransaction(ctx context.Context, rec *domain.TransactionRecord) error
	ListTransactions(ctx context.Context, user string, page, pageSize int32) ([]domain.TransactionRecord, int32, error)
	// RecordActivity upserts the user's metrics with one activity.
	RecordActivity(ctx context.Context, user string, value uint64, isRevenue bool) error
	GetMetrics(ctx context.Context, user string) (*domain.UserMetrics, error)
}

type PlatformRepository interface {
	Get(ctx context.Context) (*domain.PlatformState, error)
	// NextPostID and NextTransactionID return the next id and advance the
	// counter.
	NextPostID(ctx context.Context) (uint64, error)
	NextTransactionID(ctx context.Context) (uint64, error)
	AddServiceRevenue(ctx context.Context, amount uint64) error
	// WithdrawServiceRevenue decrements accumulated revenue; ErrInvalidValue
	// if amount exceeds it.
	WithdrawServiceRevenue(ctx context.Context, amount uint64) error
	SetServiceFee(ctx context.Context, bps uint64) error
	SetTermLimits(ctx context.Context, minBlocks, maxBlocks uint64) error
}
