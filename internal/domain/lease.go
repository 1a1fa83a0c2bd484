package domain

// Lease is one in-progress rental. At most one lease exists per posting;
// posting.Accessible is false exactly while a lease exists.
type Lease struct {
	PostID        uint64 `json:"post_id"`
	Lessee        string `json:"lessee"`
	BeginBlock    uint64 `json:"begin_block"`
	ExpireBlock   uint64 `json:"expire_block"`
	AmountPaid    uint64 `json:"amount_paid"`
	DepositAmount uint64 `json:"deposit_amount"`
}

// ExpiredAt reports whether the lease has run out at the given block height.
func (l *Lease) ExpiredAt(height uint64) bool {
	return height >= l.ExpireBlock
}

// LeaseReceipt is returned to the lessee when a lease is originated.
type LeaseReceipt struct {
	TransactionID uint64 `json:"transaction_id"`
	ExpireBlock   uint64 `json:"expire_block"`
	Deposit       uint64 `json:"deposit"`
}
