package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/portfolio"
	"github.com/dfarias/fisim/utils"
)

type simulateInput struct {
	Portfolio   string            `json:"portfolio"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Instruments []instrumentInput `json:"instruments"`
}

type instrumentInput struct {
	Name              string  `json:"name"`
	Kind              string  `json:"kind"` // fixed | inflation | floating
	Principal         float64 `json:"principal"`
	StartDate         string  `json:"start_date"`
	MaturityDate      string  `json:"maturity_date"`
	AnnualRate        float64 `json:"annual_rate,omitempty"`
	RateMultiple      float64 `json:"rate_multiple,omitempty"`
	SemiannualCoupons bool    `json:"semiannual_coupons,omitempty"`
	CouponMonths      []int   `json:"coupon_months,omitempty"`
	Currency          string  `json:"currency,omitempty"`
	DefaultIndexRate  float64 `json:"default_index_rate,omitempty"`
	// FlatCouponFraction switches inflation-linked coupons from accrued
	// interest to a flat fraction of the corrected principal.
	FlatCouponFraction float64 `json:"flat_coupon_fraction,omitempty"`
}

type monthOutput struct {
	Date   string             `json:"date"`
	Total  float64            `json:"total"`
	Values map[string]float64 `json:"values"`
}

type simulateOutput struct {
	Portfolio    string        `json:"portfolio"`
	StartDate    string        `json:"start_date"`
	EndDate      string        `json:"end_date"`
	FinalTotal   float64       `json:"final_total"`
	TotalCoupons float64       `json:"total_coupons"`
	Rentability  float64       `json:"rentability"`
	Months       []monthOutput `json:"months"`
	Error        string        `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: simulate -input <path>")
		fmt.Fprintln(os.Stderr, "Simulate a fixed-income portfolio month by month.")
		return
	}

	config.Load()

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: simulate -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	var in simulateInput
	if err := json.Unmarshal(bytes.TrimSpace(raw), &in); err != nil {
		exitError(fmt.Sprintf("parse JSON: %v", err))
	}

	out, err := process(in)
	if err != nil {
		exitError(err.Error())
	}

	b, _ := json.Marshal(out)
	fmt.Println(string(b))
}

func process(in simulateInput) (*simulateOutput, error) {
	start, err := utils.DateParser(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %v", err)
	}
	end, err := utils.DateParser(in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %v", err)
	}

	p := portfolio.New(in.Portfolio)
	for _, spec := range in.Instruments {
		inst, err := buildInstrument(spec)
		if err != nil {
			return nil, err
		}
		if err := p.Add(inst); err != nil {
			return nil, err
		}
	}

	res, err := p.Simulate(start, end)
	if err != nil {
		return nil, err
	}

	months := make([]monthOutput, 0, len(res.Months))
	for _, month := range res.Months {
		values := make(map[string]float64, len(res.Instruments))
		for name, v := range res.Values[month] {
			values[name] = utils.RoundTo(v, 2)
		}
		months = append(months, monthOutput{
			Date:   month.Format("2006-01-02"),
			Total:  utils.RoundTo(res.Totals[month], 2),
			Values: values,
		})
	}

	return &simulateOutput{
		Portfolio:    in.Portfolio,
		StartDate:    res.StartDate.Format("2006-01-02"),
		EndDate:      res.EndDate.Format("2006-01-02"),
		FinalTotal:   utils.RoundTo(res.FinalTotal(), 2),
		TotalCoupons: utils.RoundTo(res.TotalCoupons, 2),
		Rentability:  utils.RoundTo(res.Rentability(), 6),
		Months:       months,
	}, nil
}

func buildInstrument(in instrumentInput) (*instrument.Instrument, error) {
	start, err := utils.DateParser(in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("instrument %q: invalid start_date: %v", in.Name, err)
	}
	maturity, err := utils.DateParser(in.MaturityDate)
	if err != nil {
		return nil, fmt.Errorf("instrument %q: invalid maturity_date: %v", in.Name, err)
	}

	var couponMonths [2]time.Month
	if len(in.CouponMonths) == 2 {
		couponMonths = [2]time.Month{time.Month(in.CouponMonths[0]), time.Month(in.CouponMonths[1])}
	} else if len(in.CouponMonths) != 0 {
		return nil, fmt.Errorf("instrument %q: coupon_months must have exactly two entries", in.Name)
	}

	switch in.Kind {
	case "fixed":
		return instrument.NewFixedRate(instrument.FixedRateSpec{
			Name:              in.Name,
			Principal:         in.Principal,
			StartDate:         start,
			MaturityDate:      maturity,
			AnnualRate:        in.AnnualRate,
			SemiannualCoupons: in.SemiannualCoupons,
			CouponMonths:      couponMonths,
			Currency:          in.Currency,
		})
	case "inflation":
		return instrument.NewInflationLinked(instrument.InflationLinkedSpec{
			Name:               in.Name,
			Principal:          in.Principal,
			StartDate:          start,
			MaturityDate:       maturity,
			AnnualRate:         in.AnnualRate,
			SemiannualCoupons:  in.SemiannualCoupons,
			CouponMonths:       couponMonths,
			Currency:           in.Currency,
			DefaultIndexRate:   in.DefaultIndexRate,
			FlatCouponFraction: in.FlatCouponFraction,
		})
	case "floating":
		return instrument.NewFloatingRate(instrument.FloatingRateSpec{
			Name:             in.Name,
			Principal:        in.Principal,
			StartDate:        start,
			MaturityDate:     maturity,
			RateMultiple:     in.RateMultiple,
			Currency:         in.Currency,
			DefaultIndexRate: in.DefaultIndexRate,
		})
	default:
		return nil, fmt.Errorf("instrument %q: unknown kind %q", in.Name, in.Kind)
	}
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func exitError(msg string) {
	b, _ := json.Marshal(simulateOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
