package portfolio

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dfarias/fisim/instrument"
)

// Result is the aggregated outcome of one portfolio simulation. Values
// and Coupons are keyed by month then instrument name; a missing
// instrument key means the instrument was not alive that month.
type Result struct {
	PortfolioName string
	StartDate     time.Time
	EndDate       time.Time
	Months        []time.Time
	Instruments   []string

	// InstrumentSnapshot holds the simulated instruments keyed by name,
	// as they were at run time.
	InstrumentSnapshot map[string]*instrument.Instrument

	Values  map[time.Time]map[string]float64
	Totals  map[time.Time]float64
	Coupons map[time.Time]map[string]float64

	// CouponTotals holds the summed payouts of each month that had any.
	CouponTotals map[time.Time]float64

	TotalCoupons float64
}

func newResult(name string, start, end time.Time, months []time.Time, instruments []string) *Result {
	return &Result{
		PortfolioName:      name,
		StartDate:          start,
		EndDate:            end,
		Months:             months,
		Instruments:        instruments,
		InstrumentSnapshot: make(map[string]*instrument.Instrument, len(instruments)),
		Values:             make(map[time.Time]map[string]float64, len(months)),
		Totals:             make(map[time.Time]float64, len(months)),
		Coupons:            make(map[time.Time]map[string]float64),
		CouponTotals:       make(map[time.Time]float64),
	}
}

func (r *Result) record(month time.Time, name string, mr instrument.MonthlyResult) {
	cells, ok := r.Values[month]
	if !ok {
		cells = make(map[string]float64, len(r.Instruments))
		r.Values[month] = cells
	}
	cells[name] = mr.Value
	r.Totals[month] += mr.Value

	if mr.CouponPaid {
		coupons, ok := r.Coupons[month]
		if !ok {
			coupons = make(map[string]float64)
			r.Coupons[month] = coupons
		}
		coupons[name] = mr.CouponAmount
		r.CouponTotals[month] += mr.CouponAmount
		r.TotalCoupons += mr.CouponAmount
	}
}

// FinalTotal returns the portfolio total of the last simulated month.
func (r *Result) FinalTotal() float64 {
	return r.Totals[r.EndDate]
}

// Rentability returns the aggregate return of the run: the final total
// plus every coupon paid, over the total of the first month.
func (r *Result) Rentability() float64 {
	initial := r.Totals[r.Months[0]]
	if initial == 0 {
		return 0
	}
	return (r.FinalTotal()+r.TotalCoupons)/initial - 1
}

// Table renders the month-by-month values as an aligned text table, one
// column per instrument plus the total. Undefined cells render as "-".
func (r *Result) Table() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(w, "Date")
	for _, name := range r.Instruments {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprint(w, "\tTotal\n")

	for _, month := range r.Months {
		fmt.Fprint(w, month.Format("2006-01"))
		for _, name := range r.Instruments {
			if v, ok := r.Values[month][name]; ok {
				fmt.Fprintf(w, "\t%.2f", v)
			} else {
				fmt.Fprint(w, "\t-")
			}
		}
		fmt.Fprintf(w, "\t%.2f\n", r.Totals[month])
	}

	w.Flush()
	return sb.String()
}

// CouponTable renders the months with payouts shaped like Table: one
// row per month, one column per instrument plus the month total.
// Instruments without a payout that month render as "-". The last row
// carries the run grand total.
func (r *Result) CouponTable() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprint(w, "Date")
	for _, name := range r.Instruments {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprint(w, "\tTotal\n")

	for _, month := range r.Months {
		coupons, ok := r.Coupons[month]
		if !ok {
			continue
		}
		fmt.Fprint(w, month.Format("2006-01"))
		for _, name := range r.Instruments {
			if c, ok := coupons[name]; ok {
				fmt.Fprintf(w, "\t%.2f", c)
			} else {
				fmt.Fprint(w, "\t-")
			}
		}
		fmt.Fprintf(w, "\t%.2f\n", r.CouponTotals[month])
	}

	fmt.Fprint(w, "Total")
	for range r.Instruments {
		fmt.Fprint(w, "\t")
	}
	fmt.Fprintf(w, "\t%.2f\n", r.TotalCoupons)

	w.Flush()
	return sb.String()
}
