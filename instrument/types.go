package instrument

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInstrument is returned when construction parameters are
	// inconsistent (start not before maturity, malformed coupon months).
	ErrInvalidInstrument = errors.New("invalid instrument")

	// ErrDateOutOfRange is returned when a valuation is requested outside
	// the instrument's life or out of chronological order.
	ErrDateOutOfRange = errors.New("date out of range")

	// ErrDateNotInHistory is returned when a lookup references a month
	// that was never simulated.
	ErrDateNotInHistory = errors.New("date not in history")
)

// IndexKind identifies how an instrument's rate is indexed.
type IndexKind int

const (
	// IndexNone is a fixed-rate instrument with no external index.
	IndexNone IndexKind = iota
	// IndexInflation links the principal to a monthly price index.
	IndexInflation
	// IndexFloating contracts a percentage of a variable reference rate.
	IndexFloating
)

func (k IndexKind) String() string {
	switch k {
	case IndexNone:
		return "fixed"
	case IndexInflation:
		return "inflation"
	case IndexFloating:
		return "floating"
	default:
		return "unknown"
	}
}

// Operator is how the index combines with the contract rate.
type Operator int

const (
	// OpNone applies to fixed-rate instruments.
	OpNone Operator = iota
	// OpAdditive sums index and rate (e.g. inflation + 5.5% a.a.).
	OpAdditive
	// OpMultiplicative scales the index by the contract multiple (e.g. 110% of the reference rate).
	OpMultiplicative
)

func (o Operator) String() string {
	switch o {
	case OpAdditive:
		return "+"
	case OpMultiplicative:
		return "x"
	default:
		return ""
	}
}

// MonthlyResult is the immutable snapshot of one simulated month.
type MonthlyResult struct {
	// Date is the first day of the simulated month.
	Date time.Time
	// Value is the instrument value at month end (0 after the maturity payout).
	Value float64
	// Principal is the original invested amount, for reference.
	Principal float64
	// Interest is the accrual of this month alone.
	Interest float64
	// AccruedInterest is the cumulative interest not yet paid out.
	AccruedInterest float64
	// IndexValue is the index fixing applied this month (0 for fixed-rate).
	IndexValue float64
	// MonthlyRate is the effective rate applied this month.
	MonthlyRate float64
	// CouponPaid reports whether a payout left the instrument this month.
	CouponPaid bool
	// CouponAmount is the amount paid out (0 when CouponPaid is false).
	CouponAmount float64
	// CorrectedPrincipal is the principal compounded by the index alone.
	// Equals Principal for kinds other than inflation-linked.
	CorrectedPrincipal float64
}
