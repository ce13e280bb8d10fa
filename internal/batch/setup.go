package batch

import (
	"fmt"
	"time"

	"github.com/sawpanic/hedgerun/internal/config"
	"github.com/sawpanic/hedgerun/internal/hedge"
	"github.com/sawpanic/hedgerun/internal/instrument"
	"github.com/sawpanic/hedgerun/internal/market"
	"github.com/sawpanic/hedgerun/internal/portfolio"
)

const dateLayout = "2006-01-02"

// BuildRun assembles an engine and its market feed from a run configuration.
func BuildRun(rc *config.RunConfig) (*hedge.Engine, *market.Feed, error) {
	feed, err := buildFeed(rc.Scenario)
	if err != nil {
		return nil, nil, fmt.Errorf("scenario: %w", err)
	}

	book := portfolio.NewBook()
	for i, spec := range rc.Portfolio {
		inst, err := buildInstrument(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("portfolio position %d: %w", i, err)
		}
		book.Add(inst, spec.Qty)
	}

	var gammaInst, vegaInst instrument.Instrument
	if rc.GammaHedge != nil {
		if gammaInst, err = buildInstrument(*rc.GammaHedge); err != nil {
			return nil, nil, fmt.Errorf("gamma hedge: %w", err)
		}
	}
	if rc.VegaHedge != nil {
		if vegaInst, err = buildInstrument(*rc.VegaHedge); err != nil {
			return nil, nil, fmt.Errorf("vega hedge: %w", err)
		}
	}

	cfg := rc.Engine
	eng, err := hedge.New(&cfg, book, feed, gammaInst, vegaInst)
	if err != nil {
		return nil, nil, err
	}
	return eng, feed, nil
}

func buildFeed(sc config.ScenarioConfig) (*market.Feed, error) {
	start, err := time.Parse(dateLayout, sc.Start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", sc.Start, err)
	}

	env := market.DefaultEnvironment()
	if sc.Environment != nil {
		env = *sc.Environment
	}

	var shock market.Shock
	if sc.Preset != "" {
		preset, err := market.LookupPreset(sc.Preset)
		if err != nil {
			return nil, err
		}
		shock = preset.Shock
	} else {
		shock = *sc.Shock
	}

	return env.Simulate(start, shock)
}

func buildInstrument(spec config.InstrumentSpec) (instrument.Instrument, error) {
	switch spec.Kind {
	case "underlying":
		return instrument.Underlying{}, nil
	case "call", "put":
		expiry, err := time.Parse(dateLayout, spec.Expiry)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry %q: %w", spec.Expiry, err)
		}
		if spec.Kind == "call" {
			return instrument.NewCall(spec.Strike, expiry), nil
		}
		return instrument.NewPut(spec.Strike, expiry), nil
	default:
		return nil, fmt.Errorf("unknown instrument kind %q", spec.Kind)
	}
}

// ScenarioLabel names the scenario a run uses, for reporting.
func ScenarioLabel(rc *config.RunConfig) string {
	if rc.Scenario.Preset != "" {
		return rc.Scenario.Preset
	}
	return "custom"
}
