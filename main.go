package main

import (
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dfarias/fisim/config"
	"github.com/dfarias/fisim/instrument"
	"github.com/dfarias/fisim/portfolio"
	"github.com/dfarias/fisim/simulation"
)

func main() {
	config.Load()

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	ipca, err := instrument.NewInflationLinked(instrument.InflationLinkedSpec{
		Name:               "Tesouro IPCA+ 2026",
		Principal:          10000,
		StartDate:          start,
		MaturityDate:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		AnnualRate:         0.055,
		SemiannualCoupons:  true,
		CouponMonths:       [2]time.Month{time.May, time.November},
		Currency:           "BRL",
		FlatCouponFraction: config.Get().InflationSemiannualCoupon,
	})
	if err != nil {
		log.Fatal(err)
	}

	prefixado, err := instrument.NewFixedRate(instrument.FixedRateSpec{
		Name:         "Tesouro Prefixado 2025",
		Principal:    10000,
		StartDate:    start,
		MaturityDate: end,
		AnnualRate:   0.105,
		Currency:     "BRL",
	})
	if err != nil {
		log.Fatal(err)
	}

	cdi, err := instrument.NewFloatingRate(instrument.FloatingRateSpec{
		Name:         "CDB 110% CDI",
		Principal:    10000,
		StartDate:    start,
		MaturityDate: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		RateMultiple: 1.10,
		Currency:     "BRL",
	})
	if err != nil {
		log.Fatal(err)
	}

	p := portfolio.New("tesouro")
	for _, inst := range []*instrument.Instrument{ipca, prefixado, cdi} {
		if err := p.Add(inst); err != nil {
			log.Fatal(err)
		}
	}

	logger := logrus.New()
	if level, err := logrus.ParseLevel(config.Get().LogLevel); err == nil {
		logger.SetLevel(level)
	}

	cfg := simulation.NewConfig(start, end)
	cfg.InflationScenarios["high-inflation"] = constantCurve(start, end, 0.0080)
	cfg.InflationScenarios["low-inflation"] = constantCurve(start, end, 0.0020)

	eng := simulation.NewEngine(p, cfg, logger)
	base, err := eng.Run(simulation.BaseScenario)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := eng.RunMany([]string{"high-inflation", "low-inflation"}); err != nil {
		log.Fatal(err)
	}

	fmt.Println(base.Table())
	fmt.Println(base.CouponTable())

	for _, s := range eng.Summary() {
		fmt.Printf("%-15s final %12.2f  coupons %10.2f  return %7.2f%%  annualized %6.2f%%\n",
			s.Scenario, s.FinalValue, s.TotalCoupons, s.Return*100, s.AnnualizedReturn*100)
	}
}

func constantCurve(start, end time.Time, rate float64) map[time.Time]float64 {
	curve := make(map[time.Time]float64)
	for d := start; !d.After(end); d = d.AddDate(0, 1, 0) {
		curve[d] = rate
	}
	return curve
}
