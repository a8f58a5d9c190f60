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

	"github.com/sirupsen/logrus"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/portfolio"
	"github.com/dfarias/fisim/simulation"
	"github.com/dfarias/fisim/utils"
)

type scenariosInput struct {
	Portfolio   string                   `json:"portfolio"`
	StartDate   string                   `json:"start_date"`
	EndDate     string                   `json:"end_date"`
	Instruments []instrumentInput        `json:"instruments"`
	Scenarios   map[string]scenarioInput `json:"scenarios"`
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

type scenarioInput struct {
	// Curves are monthly rates keyed by "2006-01-02" dates.
	Inflation map[string]float64 `json:"inflation,omitempty"`
	Floating  map[string]float64 `json:"floating,omitempty"`
}

type summaryOutput struct {
	Scenario         string  `json:"scenario"`
	InitialValue     float64 `json:"initial_value"`
	FinalValue       float64 `json:"final_value"`
	TotalCoupons     float64 `json:"total_coupons"`
	Return           float64 `json:"return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Years            float64 `json:"years"`
}

type scenariosOutput struct {
	Portfolio string          `json:"portfolio"`
	Summaries []summaryOutput `json:"summaries"`
	Error     string          `json:"error,omitempty"`
}

func main() {
	inputPath := flag.String("input", "", "JSON input path (reads stdin if omitted)")
	help := flag.Bool("h", false, "Show help")
	flag.BoolVar(help, "help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Usage: scenarios -input <path>")
		fmt.Fprintln(os.Stderr, "Run a portfolio through named index scenarios and compare returns.")
		return
	}

	config.Load()

	path := strings.TrimSpace(*inputPath)
	if path == "" {
		if stat, err := os.Stdin.Stat(); err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
			fmt.Fprintln(os.Stderr, "Usage: scenarios -input <path>")
			os.Exit(2)
		}
	}

	raw, err := readInput(path)
	if err != nil {
		exitError(fmt.Sprintf("read input: %v", err))
	}

	var in scenariosInput
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

func process(in scenariosInput) (*scenariosOutput, error) {
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

	cfg := simulation.NewConfig(start, end)
	names := make([]string, 0, len(in.Scenarios))
	for name, curves := range in.Scenarios {
		names = append(names, name)
		if len(curves.Inflation) > 0 {
			curve, err := parseCurve(curves.Inflation)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %v", name, err)
			}
			cfg.InflationScenarios[name] = curve
		}
		if len(curves.Floating) > 0 {
			curve, err := parseCurve(curves.Floating)
			if err != nil {
				return nil, fmt.Errorf("scenario %q: %v", name, err)
			}
			cfg.FloatingScenarios[name] = curve
		}
	}
	if len(names) == 0 {
		names = append(names, simulation.BaseScenario)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(config.Get().LogLevel); err == nil {
		log.SetLevel(level)
	}

	eng := simulation.NewEngine(p, cfg, log)
	if _, err := eng.RunMany(names); err != nil {
		return nil, err
	}

	summaries := make([]summaryOutput, 0, len(names))
	for _, s := range eng.Summary() {
		summaries = append(summaries, summaryOutput{
			Scenario:         s.Scenario,
			InitialValue:     utils.RoundTo(s.InitialValue, 2),
			FinalValue:       utils.RoundTo(s.FinalValue, 2),
			TotalCoupons:     utils.RoundTo(s.TotalCoupons, 2),
			Return:           utils.RoundTo(s.Return, 6),
			AnnualizedReturn: utils.RoundTo(s.AnnualizedReturn, 6),
			Years:            s.Years,
		})
	}

	return &scenariosOutput{Portfolio: in.Portfolio, Summaries: summaries}, nil
}

func parseCurve(raw map[string]float64) (map[time.Time]float64, error) {
	curve := make(map[time.Time]float64, len(raw))
	for key, rate := range raw {
		d, err := utils.DateParser(key)
		if err != nil {
			return nil, fmt.Errorf("invalid curve date %s: %v", key, err)
		}
		curve[d] = rate
	}
	return curve, nil
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
	b, _ := json.Marshal(scenariosOutput{Error: msg})
	fmt.Println(string(b))
	os.Exit(1)
}
