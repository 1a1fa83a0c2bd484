package domain

type Activity string

const (
	ActivityLeased   Activity = "leased"
	ActivityReturned Activity = "returned"
)

// TransactionRecord is an append-only history entry keyed by (user, id).
// Records are never mutated or deleted once written.
type TransactionRecord struct {
	ID       uint64   `json:"id"`
	User     string   `json:"user"`
	PostID   uint64   `json:"post_id"`
	Activity Activity `json:"activity"`
	Block    uint64   `json:"block"`
	Value    uint64   `json:"value"`
}

const (
	InitialTrustRating = 100
	TrustRatingStep    = 10
	MaxTrustRating     = 1000
)

// UserMetrics aggregates a user's marketplace activity. Created lazily on
// first activity, never deleted. TrustRating is a saturating counter: it
// starts at InitialTrustRating, rises by TrustRatingStep per recorded
// activity and never exceeds MaxTrustRating.
type UserMetrics struct {
	User              string `json:"user"`
	TotalTransactions uint64 `json:"total_transactions"`
	TotalExpenditure  uint64 `json:"total_expenditure"`
	TotalRevenue      uint64 `json:"total_revenue"`
	TrustRating       uint64 `json:"trust_rating"`
}

// Record applies one activity to the metrics.
func (m *UserMetrics) Record(value uint64, isRevenue bool) {
	m.TotalTransactions++
	if isRevenue {
		m.TotalRevenue += value
	} else {
		m.TotalExpenditure += value
	}
	m.TrustRating += TrustRatingStep
	if m.TrustRating > MaxTrustRating {
		m.TrustRating = MaxTrustRating
	}
}
