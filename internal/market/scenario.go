package market

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Environment holds the pre-shock market levels from which stress scenarios
// are generated.
type Environment struct {
	Spot0   float64 `yaml:"spot_start"`
	Vol0    float64 `yaml:"vol_start"`
	SOFR0   float64 `yaml:"sofr_start"`
	Spread0 float64 `yaml:"spread_start"`
}

// DefaultEnvironment returns the baseline calm market: spot 100, 20% vol,
// 4% SOFR, 100bps credit spread.
func DefaultEnvironment() Environment {
	return Environment{Spot0: 100.0, Vol0: 0.20, SOFR0: 0.04, Spread0: 0.01}
}

// Shock describes a linear stress path applied over a number of business days.
type Shock struct {
	Days       int     `yaml:"days"`
	SpotReturn float64 `yaml:"spot_return"` // total spot return over the path, e.g. -0.30
	VolMult    float64 `yaml:"vol_mult"`    // vol feedback multiplier on spot drawdown
	DSOFR      float64 `yaml:"d_sofr"`      // total SOFR change over the path
	DSpread    float64 `yaml:"d_spread"`    // total credit spread change over the path
}

// minVol floors the volatility path in rallying markets.
const minVol = 0.05

// Simulate generates the daily stress path: Days+1 business-day snapshots
// starting at (or rolled forward to) start. Spot drifts linearly; rates and
// spreads drift linearly; volatility follows a feedback loop where drawdowns
// from the starting spot spike vol by VolMult and rallies let it decay.
func (e Environment) Simulate(start time.Time, shock Shock) (*Feed, error) {
	if shock.Days <= 0 {
		return nil, fmt.Errorf("shock requires a positive day count, got %d", shock.Days)
	}

	steps := shock.Days + 1
	snaps := make([]Snapshot, 0, steps)

	dailyRet := shock.SpotReturn / float64(shock.Days)
	sofrStep := shock.DSOFR / float64(shock.Days)
	spreadStep := shock.DSpread / float64(shock.Days)

	date := nextBusinessDay(start)
	spot := e.Spot0
	vol := e.Vol0
	sofr := e.SOFR0
	spread := e.Spread0

	for i := 0; i < steps; i++ {
		if i > 0 {
			spot *= 1 + dailyRet
			sofr += sofrStep
			spread += spreadStep

			// Leverage effect: spot down, vol up. The spike scales with the
			// drawdown from the scenario's starting level.
			drop := (e.Spot0 - spot) / e.Spot0
			if drop > 0 {
				vol = e.Vol0 * (1 + drop*shock.VolMult)
			} else {
				vol = math.Max(minVol, e.Vol0*0.95)
			}

			date = nextBusinessDay(date.AddDate(0, 0, 1))
		}

		snaps = append(snaps, Snapshot{
			Date:         date,
			Spot:         spot,
			Vol:          vol,
			SOFR:         sofr,
			CreditSpread: spread,
		})
	}

	return NewFeed(snaps)
}

// nextBusinessDay rolls a date forward to the next Monday-Friday day,
// leaving business days untouched.
func nextBusinessDay(d time.Time) time.Time {
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// Preset is a named historical stress configuration.
type Preset struct {
	Name      string
	Narrative string
	Shock     Shock
}

// presets mirrors the desk's library of famous market dislocations.
var presets = map[string]Preset{
	"taper_tantrum_2013": {
		Name:      "taper_tantrum_2013",
		Narrative: "Bear steepener. Fed threatens to stop buying; short end anchored, long end explodes.",
		Shock:     Shock{Days: 20, SpotReturn: -0.05, VolMult: 1.5, DSOFR: 0.0, DSpread: 0.005},
	},
	"trump_reflation_2016": {
		Name:      "trump_reflation_2016",
		Narrative: "Bullish bear steepener. Growth expectations rise, long duration dumped, equities rally.",
		Shock:     Shock{Days: 20, SpotReturn: 0.10, VolMult: 0.0, DSOFR: 0.0, DSpread: -0.0010},
	},
	"repo_crisis_2019": {
		Name:      "repo_crisis_2019",
		Narrative: "Plumbing break. Reserve scarcity; repo rates spike violently, spreads blow out.",
		Shock:     Shock{Days: 5, SpotReturn: -0.02, VolMult: 2.0, DSOFR: 0.05, DSpread: 0.03},
	},
	"covid_crash_2020": {
		Name:      "covid_crash_2020",
		Narrative: "Deflationary bust. Dash for cash, equities -30%, vol explodes, rates to zero.",
		Shock:     Shock{Days: 20, SpotReturn: -0.30, VolMult: 4.0, DSOFR: -0.015, DSpread: 0.04},
	},
	"inflation_shock_2022": {
		Name:      "inflation_shock_2022",
		Narrative: "Bear flattener. Fed hikes to kill inflation, curve inverts, growth names crash.",
		Shock:     Shock{Days: 20, SpotReturn: -0.15, VolMult: 1.5, DSOFR: 0.015, DSpread: 0.005},
	},
	"liberation_day_2025": {
		Name:      "liberation_day_2025",
		Narrative: "Tariff stagflation. Inflation up, rates up, spreads up, growth down.",
		Shock:     Shock{Days: 10, SpotReturn: -0.15, VolMult: 2.0, DSOFR: 0.0025, DSpread: 0.02},
	},
}

// LookupPreset returns a preset scenario by name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown scenario preset %q", name)
	}
	return p, nil
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
