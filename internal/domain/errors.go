package domain

import "errors"

// Error kinds surfaced by the lease engine. Every validation failure aborts
// the whole operation with no partial state change; callers classify with
// errors.Is.
var (
	ErrAdminOnly          = errors.New("operation restricted to the platform admin")
	ErrItemNotFound       = errors.New("item not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidValue       = errors.New("invalid value")
	ErrAlreadyPosted      = errors.New("asset is already posted")
	ErrNotAccessible      = errors.New("posting is not accessible")
	ErrLeaseInProgress    = errors.New("lease is in progress")
	ErrLeaseEnded         = errors.New("no active lease")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidTimeframe   = errors.New("invalid timeframe")
	ErrAssetNotControlled = errors.New("caller does not control the asset")
)

// ErrorKind returns a stable machine-readable tag for a known error kind,
// or "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrAdminOnly):
		return "admin_only"
	case errors.Is(err, ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrAlreadyPosted):
		return "already_posted"
	case errors.Is(err, ErrNotAccessible):
		return "not_accessible"
	case errors.Is(err, ErrLeaseInProgress):
		return "lease_in_progress"
	case errors.Is(err, ErrLeaseEnded):
		return "lease_ended"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrInvalidTimeframe):
		return "invalid_timeframe"
	case errors.Is(err, ErrAssetNotControlled):
		return "asset_not_controlled"
	default:
		return "internal"
	}
}
