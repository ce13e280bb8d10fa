package config

import (
	"fmt"
	"time"

	"github.com/sawpanic/hedgerun/internal/hedge"
)

// DemoRun returns the canonical demo book for a preset scenario: a short
// ATM straddle (the classic short-convexity position a stressed desk has to
// defend) hedged with a short-dated gamma option and a long-dated vega
// option, all struck at the starting spot.
func DemoRun(preset, start string) (*RunConfig, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}

	day := func(d time.Time) string { return d.Format("2006-01-02") }
	straddleExpiry := day(startDate.AddDate(0, 6, 0))

	rc := &RunConfig{
		Name: fmt.Sprintf("demo-%s", preset),
		Scenario: ScenarioConfig{
			Preset: preset,
			Start:  start,
		},
		Portfolio: []InstrumentSpec{
			{Kind: "call", Strike: 100, Expiry: straddleExpiry, Qty: -50},
			{Kind: "put", Strike: 100, Expiry: straddleExpiry, Qty: -50},
		},
		GammaHedge: &InstrumentSpec{Kind: "call", Strike: 100, Expiry: day(startDate.AddDate(0, 2, 0))},
		VegaHedge:  &InstrumentSpec{Kind: "call", Strike: 100, Expiry: day(startDate.AddDate(1, 0, 0))},
		Engine:     *hedge.DefaultConfig(),
	}
	return rc, nil
}
