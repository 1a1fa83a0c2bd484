package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leasehold-backend/internal/domain"
)

func TestPlatformRepository_Get(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)

	mock.ExpectQuery(`SELECT next_post_id, next_transaction_id, service_fee_bps, minimum_lease_blocks, maximum_lease_blocks, total_service_revenue FROM platform_state WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{
			"next_post_id", "next_transaction_id", "service_fee_bps",
			"minimum_lease_blocks", "maximum_lease_blocks", "total_service_revenue",
		}).AddRow(4, 9, 500, 1, 52560, 1500))

	st, err := store.PlatformRepository.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), st.NextPostID)
	assert.Equal(t, uint64(9), st.NextTransactionID)
	assert.Equal(t, uint64(500), st.ServiceFeeBps)
	assert.Equal(t, uint64(1500), st.TotalServiceRevenue)
}

func TestPlatformRepository_Counters(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)

	mock.ExpectQuery(`UPDATE platform_state SET next_post_id = next_post_id \+ 1 WHERE id = 1 RETURNING next_post_id - 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(`UPDATE platform_state SET next_transaction_id = next_transaction_id \+ 1 WHERE id = 1 RETURNING next_transaction_id - 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	id, err := store.PlatformRepository.NextPostID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	txID, err := store.PlatformRepository.NextTransactionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), txID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlatformRepository_WithdrawServiceRevenue(t *testing.T) {
	ctx := context.Background()

	t.Run("GuardedDecrement", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`UPDATE platform_state SET total_service_revenue = total_service_revenue - \$1 WHERE id = 1 AND total_service_revenue >= \$1`).
			WithArgs(uint64(300)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.PlatformRepository.WithdrawServiceRevenue(ctx, 300))
	})

	t.Run("ExceedsAccrued", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectExec(`UPDATE platform_state SET total_service_revenue`).
			WithArgs(uint64(9999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.PlatformRepository.WithdrawServiceRevenue(ctx, 9999), domain.ErrInvalidValue)
	})
}

func TestHistoryRepository_RecordActivity(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)

	// Expenditure activity: value lands in the expenditure column.
	mock.ExpectExec(`INSERT INTO user_metrics`).
		WithArgs("bob", uint64(10000), uint64(0), domain.InitialTrustRating, domain.TrustRatingStep, domain.MaxTrustRating).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Revenue activity for the holder.
	mock.ExpectExec(`INSERT INTO user_metrics`).
		WithArgs("alice", uint64(0), uint64(9500), domain.InitialTrustRating, domain.TrustRatingStep, domain.MaxTrustRating).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, store.HistoryRepository.RecordActivity(ctx, "bob", 10000, false))
	assert.NoError(t, store.HistoryRepository.RecordActivity(ctx, "alice", 9500, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT user_id, total_transactions, total_expenditure, total_revenue, trust_rating FROM user_metrics WHERE user_id = \$1`).
			WithArgs("bob").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "total_transactions", "total_expenditure", "total_revenue", "trust_rating"}).
				AddRow("bob", 3, 30000, 0, 130))

		m, err := store.HistoryRepository.GetMetrics(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), m.TotalTransactions)
		assert.Equal(t, uint64(130), m.TrustRating)
	})

	t.Run("Missing", func(t *testing.T) {
		store, mock := newMock(t)
		mock.ExpectQuery(`SELECT user_id, .* FROM user_metrics WHERE user_id = \$1`).
			WithArgs("nobody").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "total_transactions", "total_expenditure", "total_revenue", "trust_rating"}))

		_, err := store.HistoryRepository.GetMetrics(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestHistoryRepository_ListTransactions(t *testing.T) {
	ctx := context.Background()
	store, mock := newMock(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM transaction_records WHERE user_id = \$1`).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`SELECT record_id, user_id, post_id, activity, block, value FROM transaction_records WHERE user_id = \$1 ORDER BY record_id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("bob", int32(20), int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"record_id", "user_id", "post_id", "activity", "block", "value"}).
			AddRow(3, "bob", 1, "returned", 150, 0).
			AddRow(1, "bob", 1, "leased", 100, 10000))

	records, total, err := store.HistoryRepository.ListTransactions(ctx, "bob", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ActivityReturned, records[0].Activity)
	assert.Equal(t, domain.ActivityLeased, records[1].Activity)
}
