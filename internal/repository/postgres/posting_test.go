package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehold-backend/internal/domain"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func postingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "asset_contract", "asset_id", "holder", "rate_per_block",
		"minimum_term", "maximum_term", "accessible", "cumulative_earnings",
		"lease_transactions", "posted_at",
	})
}

func TestPostingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Insert", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO postings`).
			WithArgs(uint64(1), "hub", uint64(7), "alice", uint64(100), uint64(10), uint64(1000), true, uint64(0), uint64(0), uint64(50)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.PostingRepository.Create(ctx, &domain.Posting{
			ID:           1,
			Asset:        domain.AssetRef{Contract: "hub", AssetID: 7},
			Holder:       "alice",
			RatePerBlock: 100,
			MinimumTerm:  10,
			MaximumTerm:  1000,
			Accessible:   true,
			PostedAt:     50,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateAsset", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO postings`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.PostingRepository.Create(ctx, &domain.Posting{ID: 1})
		assert.ErrorIs(t, err, domain.ErrAlreadyPosted)
	})
}

func TestPostingRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM postings WHERE id = \$1`).
			WithArgs(uint64(1)).
			WillReturnRows(postingRows().AddRow(1, "hub", 7, "alice", 100, 10, 1000, true, 0, 0, 50))

		p, err := store.PostingRepository.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "alice", p.Holder)
		assert.Equal(t, domain.AssetRef{Contract: "hub", AssetID: 7}, p.Asset)
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM postings WHERE id = \$1`).
			WithArgs(uint64(42)).
			WillReturnRows(postingRows())

		_, err := store.PostingRepository.GetByID(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestPostingRepository_UpdateRate(t *testing.T) {
	ctx := context.Background()

	t.Run("Updated", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`UPDATE postings SET rate_per_block = \$1 WHERE id = \$2`).
			WithArgs(uint64(250), uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.PostingRepository.UpdateRate(ctx, 1, 250))
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`UPDATE postings SET rate_per_block`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.PostingRepository.UpdateRate(ctx, 42, 250), domain.ErrItemNotFound)
	})
}

func TestPostingRepository_MarkLeased(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)

	mock.ExpectExec(`UPDATE postings SET accessible = FALSE, cumulative_earnings = cumulative_earnings \+ \$1, lease_transactions = lease_transactions \+ 1 WHERE id = \$2`).
		WithArgs(uint64(9500), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.PostingRepository.MarkLeased(ctx, 1, 9500))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostingRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("HolderFilter", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM postings WHERE holder = \$1`).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(`SELECT .* FROM postings WHERE holder = \$1 ORDER BY id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs("alice", int32(20), int32(0)).
			WillReturnRows(postingRows().
				AddRow(5, "hub", 9, "alice", 100, 10, 1000, true, 0, 0, 80).
				AddRow(2, "hub", 7, "alice", 100, 10, 1000, false, 9500, 1, 50))

		postings, total, err := store.PostingRepository.List(ctx, "alice", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(2), total)
		require.Len(t, postings, 2)
		assert.Equal(t, uint64(5), postings[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unfiltered", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT count\(\*\) FROM postings`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(`SELECT .* FROM postings ORDER BY id DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(int32(20), int32(0)).
			WillReturnRows(postingRows())

		postings, total, err := store.PostingRepository.List(ctx, "", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(0), total)
		assert.Empty(t, postings)
	})
}

func TestLeaseRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetMissingMapsToLeaseEnded", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM leases WHERE post_id = \$1`).
			WithArgs(uint64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"post_id", "lessee", "begin_block", "expire_block", "amount_paid", "deposit_amount"}))

		_, err := store.LeaseRepository.Get(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrLeaseEnded)
	})

	t.Run("OpenDuplicateMapsToLeaseInProgress", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO leases`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := store.LeaseRepository.Open(ctx, &domain.Lease{PostID: 1, Lessee: "bob"})
		assert.ErrorIs(t, err, domain.ErrLeaseInProgress)
	})

	t.Run("CloseMissingMapsToLeaseEnded", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM leases WHERE post_id = \$1`).
			WithArgs(uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.LeaseRepository.Close(ctx, 1), domain.ErrLeaseEnded)
	})

	t.Run("ListExpired", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM leases WHERE expire_block <= \$1 ORDER BY post_id`).
			WithArgs(uint64(200)).
			WillReturnRows(sqlmock.NewRows([]string{"post_id", "lessee", "begin_block", "expire_block", "amount_paid", "deposit_amount"}).
				AddRow(1, "bob", 100, 200, 10000, 2000).
				AddRow(3, "carol", 50, 150, 5000, 1000))

		leases, err := store.LeaseRepository.ListExpired(ctx, 200)
		require.NoError(t, err)
		require.Len(t, leases, 2)
		assert.Equal(t, uint64(1), leases[0].PostID)
		assert.Equal(t, uint64(2000), leases[0].DepositAmount)
	})
}
