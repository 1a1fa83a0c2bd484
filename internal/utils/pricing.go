package utils

import (
	"math/bits"

	"leasehold-backend/internal/domain"
)

// LeaseQuote is the full cost breakdown for one prospective lease. The
// estimate read path and the lease execution path both derive their amounts
// from QuoteLease, so the two can never diverge for the same inputs.
type LeaseQuote struct {
	TotalExpense  uint64 `json:"total_expense"`
	Deposit       uint64 `json:"deposit"`
	ServiceFee    uint64 `json:"service_fee"`
	HolderPayment uint64 `json:"holder_payment"`
	TotalPayment  uint64 `json:"total_payment"`
}

// LeaseExpense returns ratePerBlock × term. Overflow is an InvalidValue
// error, never a silent wrap.
func LeaseExpense(ratePerBlock, term uint64) (uint64, error) {
	if ratePerBlock == 0 || term == 0 {
		return 0, domain.ErrInvalidValue
	}
	total := ratePerBlock * term
	if total/ratePerBlock != term {
		return 0, domain.ErrInvalidValue
	}
	return total, nil
}

// scaleBps computes floor(amount × bps / 10000) exactly, without the
// intermediate product overflowing. bps must not exceed BpsDenominator,
// which keeps the 128-bit quotient within uint64.
func scaleBps(amount, bps uint64) uint64 {
	hi, lo := bits.Mul64(amount, bps)
	q, _ := bits.Div64(hi, lo, domain.BpsDenominator)
	return q
}

// Deposit returns the refundable security portion: exactly 20% of the lease
// expense, truncated toward zero.
func Deposit(totalExpense uint64) uint64 {
	return scaleBps(totalExpense, domain.DepositBps)
}

// ServiceFee returns the platform's cut of the lease expense at the given
// basis-point percentage.
func ServiceFee(totalExpense, feeBps uint64) uint64 {
	return scaleBps(totalExpense, feeBps)
}

// HolderPayment is the holder's net payout after the service fee.
func HolderPayment(totalExpense, serviceFee uint64) uint64 {
	return totalExpense - serviceFee
}

// TotalPayment is the amount the lessee is debited: expense plus deposit.
func TotalPayment(totalExpense, deposit uint64) (uint64, error) {
	total := totalExpense + deposit
	if total < totalExpense {
		return 0, domain.ErrInvalidValue
	}
	return total, nil
}

// QuoteLease computes every derived amount for a lease of the given rate,
// term and fee percentage.
func QuoteLease(ratePerBlock, term, feeBps uint64) (*LeaseQuote, error) {
	expense, err := LeaseExpense(ratePerBlock, term)
	if err != nil {
		return nil, err
	}
	deposit := Deposit(expense)
	fee := ServiceFee(expense, feeBps)
	payment, err := TotalPayment(expense, deposit)
	if err != nil {
		return nil, err
	}
	return &LeaseQuote{
		TotalExpense:  expense,
		Deposit:       deposit,
		ServiceFee:    fee,
		HolderPayment: HolderPayment(expense, fee),
		TotalPayment:  payment,
	}, nil
}
