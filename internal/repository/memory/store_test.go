package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehold-backend/internal/domain"
)

func TestPostingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAndIndex", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		ref := domain.AssetRef{Contract: "hub", AssetID: 7}
		p := &domain.Posting{ID: 1, Asset: ref, Holder: "alice", RatePerBlock: 100, Accessible: true}

		require.NoError(t, store.PostingRepository.Create(ctx, p))

		byAsset, err := store.PostingRepository.GetByAsset(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), byAsset.ID)

		assert.ErrorIs(t, store.PostingRepository.Create(ctx, &domain.Posting{ID: 2, Asset: ref}), domain.ErrAlreadyPosted)
	})

	t.Run("CopyOnReturn", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		ref := domain.AssetRef{Contract: "hub", AssetID: 7}
		require.NoError(t, store.PostingRepository.Create(ctx, &domain.Posting{ID: 1, Asset: ref, RatePerBlock: 100}))

		p, err := store.PostingRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		p.RatePerBlock = 999

		again, err := store.PostingRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), again.RatePerBlock)
	})

	t.Run("DeleteFreesAsset", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		ref := domain.AssetRef{Contract: "hub", AssetID: 7}
		require.NoError(t, store.PostingRepository.Create(ctx, &domain.Posting{ID: 1, Asset: ref}))
		require.NoError(t, store.PostingRepository.Delete(ctx, 1))

		_, err := store.PostingRepository.GetByAsset(ctx, ref)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		require.NoError(t, store.PostingRepository.Create(ctx, &domain.Posting{ID: 2, Asset: ref}))
	})

	t.Run("MarkLeasedAdvancesCounters", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		ref := domain.AssetRef{Contract: "hub", AssetID: 7}
		require.NoError(t, store.PostingRepository.Create(ctx, &domain.Posting{ID: 1, Asset: ref, Accessible: true}))

		require.NoError(t, store.PostingRepository.MarkLeased(ctx, 1, 9500))
		p, err := store.PostingRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.False(t, p.Accessible)
		assert.Equal(t, uint64(9500), p.CumulativeEarnings)
		assert.Equal(t, uint64(1), p.LeaseTransactions)

		// MarkAvailable only flips the flag.
		require.NoError(t, store.PostingRepository.MarkAvailable(ctx, 1))
		p, err = store.PostingRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, p.Accessible)
		assert.Equal(t, uint64(1), p.LeaseTransactions)
	})
}

func TestLeaseRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Lifecycle", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		l := &domain.Lease{PostID: 1, Lessee: "bob", BeginBlock: 100, ExpireBlock: 200, DepositAmount: 2000}

		_, err := store.LeaseRepository.Get(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrLeaseEnded)

		require.NoError(t, store.LeaseRepository.Open(ctx, l))
		assert.ErrorIs(t, store.LeaseRepository.Open(ctx, l), domain.ErrLeaseInProgress)

		got, err := store.LeaseRepository.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Lessee)

		require.NoError(t, store.LeaseRepository.Close(ctx, 1))
		assert.ErrorIs(t, store.LeaseRepository.Close(ctx, 1), domain.ErrLeaseEnded)
	})

	t.Run("ListExpired", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		require.NoError(t, store.LeaseRepository.Open(ctx, &domain.Lease{PostID: 1, ExpireBlock: 150}))
		require.NoError(t, store.LeaseRepository.Open(ctx, &domain.Lease{PostID: 2, ExpireBlock: 300}))
		require.NoError(t, store.LeaseRepository.Open(ctx, &domain.Lease{PostID: 3, ExpireBlock: 200}))

		expired, err := store.LeaseRepository.ListExpired(ctx, 200)
		require.NoError(t, err)
		require.Len(t, expired, 2)
		assert.Equal(t, uint64(1), expired[0].PostID)
		assert.Equal(t, uint64(3), expired[1].PostID)
	})
}

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("MetricsAccrual", func(t *testing.T) {
		store := NewStore(500, 1, 1000)

		_, err := store.HistoryRepository.GetMetrics(ctx, "bob")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)

		require.NoError(t, store.HistoryRepository.RecordActivity(ctx, "bob", 10000, false))
		require.NoError(t, store.HistoryRepository.RecordActivity(ctx, "bob", 5000, true))

		m, err := store.HistoryRepository.GetMetrics(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, uint64(2), m.TotalTransactions)
		assert.Equal(t, uint64(10000), m.TotalExpenditure)
		assert.Equal(t, uint64(5000), m.TotalRevenue)
		assert.Equal(t, uint64(domain.InitialTrustRating+2*domain.TrustRatingStep), m.TrustRating)
	})

	t.Run("TransactionsNewestFirst", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		for i := uint64(1); i <= 5; i++ {
			require.NoError(t, store.HistoryRepository.AppendTransaction(ctx, &domain.TransactionRecord{
				ID: i, User: "bob", PostID: 1, Activity: domain.ActivityLeased, Value: i * 100,
			}))
		}

		page, total, err := store.HistoryRepository.ListTransactions(ctx, "bob", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, int32(5), total)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(5), page[0].ID)
		assert.Equal(t, uint64(4), page[1].ID)

		page, _, err = store.HistoryRepository.ListTransactions(ctx, "bob", 3, 2)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, uint64(1), page[0].ID)
	})
}

func TestPlatformRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Counters", func(t *testing.T) {
		store := NewStore(500, 1, 1000)

		id, err := store.PlatformRepository.NextPostID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		id, err = store.PlatformRepository.NextPostID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), id)

		txID, err := store.PlatformRepository.NextTransactionID(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), txID)
	})

	t.Run("Revenue", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		require.NoError(t, store.PlatformRepository.AddServiceRevenue(ctx, 700))
		assert.ErrorIs(t, store.PlatformRepository.WithdrawServiceRevenue(ctx, 701), domain.ErrInvalidValue)
		require.NoError(t, store.PlatformRepository.WithdrawServiceRevenue(ctx, 700))

		st, err := store.PlatformRepository.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), st.TotalServiceRevenue)
	})

	t.Run("Settings", func(t *testing.T) {
		store := NewStore(500, 1, 1000)
		require.NoError(t, store.PlatformRepository.SetServiceFee(ctx, 1500))
		require.NoError(t, store.PlatformRepository.SetTermLimits(ctx, 5, 500))

		st, err := store.PlatformRepository.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(1500), st.ServiceFeeBps)
		assert.Equal(t, uint64(5), st.MinimumLeaseBlocks)
		assert.Equal(t, uint64(500), st.MaximumLeaseBlocks)
	})
}
