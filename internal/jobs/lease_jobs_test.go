package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehold-backend/internal/chain"
	"leasehold-backend/internal/config"
	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/ledger"
	"leasehold-backend/internal/repository/memory"
	"leasehold-backend/internal/service"
)

func TestSweepExpiredLeases(t *testing.T) {
	ctx := context.Background()

	store := memory.NewStore(500, 1, 52560)
	gateway := ledger.NewMemoryGateway(map[string]uint64{"bob": 1_000_000, "carol": 1_000_000})
	clock := chain.NewManualClock(100)
	mu := &sync.Mutex{}

	listings := service.NewListingService(store.PostingRepository, store.LeaseRepository, store.PlatformRepository, nil, clock, mu)
	leases := service.NewLeaseService(store.PostingRepository, store.LeaseRepository, store.HistoryRepository, store.PlatformRepository, gateway, clock, "custody", "admin", mu)

	p1, err := listings.PostAsset(ctx, "alice", domain.AssetRef{Contract: "hub", AssetID: 1}, 100, 10, 1000)
	require.NoError(t, err)
	p2, err := listings.PostAsset(ctx, "alice", domain.AssetRef{Contract: "hub", AssetID: 2}, 100, 10, 1000)
	require.NoError(t, err)

	_, err = leases.LeaseAsset(ctx, "bob", p1.ID, 50) // expires at 150
	require.NoError(t, err)
	_, err = leases.LeaseAsset(ctx, "carol", p2.ID, 200) // expires at 300
	require.NoError(t, err)

	runner := NewJobRunner(store.LeaseRepository, leases, clock, &config.Config{})

	t.Run("NothingExpiredYet", func(t *testing.T) {
		clock.Set(149)
		runner.SweepExpiredLeases()

		_, err := leases.GetCurrentLease(ctx, p1.ID)
		assert.NoError(t, err)
	})

	t.Run("ReclaimsOnlyExpired", func(t *testing.T) {
		clock.Set(150)
		bobBefore, _ := gateway.Balance(ctx, "bob")
		runner.SweepExpiredLeases()

		_, err := leases.GetCurrentLease(ctx, p1.ID)
		assert.ErrorIs(t, err, domain.ErrLeaseEnded)
		_, err = leases.GetCurrentLease(ctx, p2.ID)
		assert.NoError(t, err)

		// Deposit went back to the lessee and the posting reopened.
		bobAfter, _ := gateway.Balance(ctx, "bob")
		assert.Equal(t, bobBefore+1000, bobAfter)

		got, err := listings.GetPosting(ctx, p1.ID)
		require.NoError(t, err)
		assert.True(t, got.Accessible)
	})

	t.Run("SweepIsIdempotent", func(t *testing.T) {
		clock.Set(400)
		runner.SweepExpiredLeases()
		runner.SweepExpiredLeases()

		_, err := leases.GetCurrentLease(ctx, p2.ID)
		assert.ErrorIs(t, err, domain.ErrLeaseEnded)
	})
}
