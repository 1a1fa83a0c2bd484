package domain

const (
	// BpsDenominator is the basis-point scale used for all fee math.
	BpsDenominator = 10000
	// DepositBps fixes the refundable deposit at 20% of the lease expense.
	DepositBps = 2000
	// MaxServiceFeeBps caps the configurable platform fee at 20%.
	MaxServiceFeeBps = 2000
)

// PlatformState is the singleton platform record. The two id counters only
// ever advance through the lifecycle engine; the rest is admin-mutable.
type PlatformState struct {
	NextPostID          uint64 `json:"next_post_id"`
	NextTransactionID   uint64 `json:"next_transaction_id"`
	ServiceFeeBps       uint64 `json:"service_fee_bps"`
	MinimumLeaseBlocks  uint64 `json:"minimum_lease_blocks"`
	MaximumLeaseBlocks  uint64 `json:"maximum_lease_blocks"`
	TotalServiceRevenue uint64 `json:"total_service_revenue"`
}

// PlatformStatistics is the public read view of the platform state.
type PlatformStatistics struct {
	TotalPostings uint64 `json:"total_postings"`
	TotalRevenue  uint64 `json:"total_revenue"`
	FeeBps        uint64 `json:"fee_bps"`
}
