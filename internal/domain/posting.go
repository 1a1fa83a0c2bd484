package domain

import "fmt"

// AssetRef identifies the leased asset: the contract that manages it plus
// the asset's id within that contract. The core treats it as an opaque key
// and never calls into the asset contract itself.
type AssetRef struct {
	Contract string `json:"contract"`
	AssetID  uint64 `json:"asset_id"`
}

// Key returns the canonical index key for the asset.
func (r AssetRef) Key() string {
	return fmt.Sprintf("%s/%d", r.Contract, r.AssetID)
}

// Posting is a listed offer to lease a specific asset under given terms.
// At most one active posting may reference a given asset.
type Posting struct {
	ID                 uint64   `json:"id"`
	Asset              AssetRef `json:"asset"`
	Holder             string   `json:"holder"`
	RatePerBlock       uint64   `json:"rate_per_block"`
	MinimumTerm        uint64   `json:"minimum_term"`
	MaximumTerm        uint64   `json:"maximum_term"`
	Accessible         bool     `json:"accessible"`
	CumulativeEarnings uint64   `json:"cumulative_earnings"`
	LeaseTransactions  uint64   `json:"lease_transactions"`
	PostedAt           uint64   `json:"posted_at"`
}
