package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/hedgerun/internal/hedge"
	"github.com/sawpanic/hedgerun/internal/market"
)

// InstrumentSpec describes one instrument in a run configuration.
type InstrumentSpec struct {
	Kind   string  `yaml:"kind"` // "call", "put", or "underlying"
	Strike float64 `yaml:"strike"`
	Expiry string  `yaml:"expiry"` // 2006-01-02; ignored for underlying
	Qty    float64 `yaml:"qty"`
}

// ScenarioConfig selects a preset stress scenario or a fully custom shock.
type ScenarioConfig struct {
	Preset      string              `yaml:"preset"`
	Start       string              `yaml:"start"` // 2006-01-02
	Environment *market.Environment `yaml:"environment"` // nil = default calm market
	Shock       *market.Shock       `yaml:"shock"`       // used when Preset is empty
}

// RunConfig is the full definition of one simulation run.
type RunConfig struct {
	Name       string           `yaml:"name"`
	Scenario   ScenarioConfig   `yaml:"scenario"`
	Portfolio  []InstrumentSpec `yaml:"portfolio"`
	GammaHedge *InstrumentSpec  `yaml:"gamma_hedge"`
	VegaHedge  *InstrumentSpec  `yaml:"vega_hedge"`
	Engine     hedge.Config     `yaml:"engine"`
}

// BatchConfig defines a set of independent runs to execute concurrently.
type BatchConfig struct {
	Parallel int         `yaml:"parallel"`
	Runs     []RunConfig `yaml:"runs"`
}

// LoadRunConfig reads and validates a run configuration from a yaml file.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}

	var rc RunConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse run config YAML: %w", err)
	}

	rc.applyDefaults()
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	return &rc, nil
}

// LoadBatchConfig reads and validates a batch configuration from a yaml file.
func LoadBatchConfig(path string) (*BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch config: %w", err)
	}

	var bc BatchConfig
	if err := yaml.Unmarshal(data, &bc); err != nil {
		return nil, fmt.Errorf("failed to parse batch config YAML: %w", err)
	}

	if bc.Parallel <= 0 {
		bc.Parallel = 4
	}
	if len(bc.Runs) == 0 {
		return nil, fmt.Errorf("batch config defines no runs")
	}

	names := make(map[string]bool, len(bc.Runs))
	for i := range bc.Runs {
		bc.Runs[i].applyDefaults()
		if err := bc.Runs[i].Validate(); err != nil {
			return nil, fmt.Errorf("run %q: %w", bc.Runs[i].Name, err)
		}
		if names[bc.Runs[i].Name] {
			return nil, fmt.Errorf("duplicate run name %q", bc.Runs[i].Name)
		}
		names[bc.Runs[i].Name] = true
	}
	return &bc, nil
}

// applyDefaults fills unset engine options with the desk defaults. A zero
// value in yaml is indistinguishable from omitted, so zero spreads are not
// representable in config files.
func (rc *RunConfig) applyDefaults() {
	def := hedge.DefaultConfig()
	if rc.Engine.RehedgeInterval == 0 {
		rc.Engine.RehedgeInterval = def.RehedgeInterval
	}
	if rc.Engine.StockSpreadBps == 0 {
		rc.Engine.StockSpreadBps = def.StockSpreadBps
	}
	if rc.Engine.OptionSpreadBps == 0 {
		rc.Engine.OptionSpreadBps = def.OptionSpreadBps
	}
}

// Validate checks structural consistency; instrument-level parsing happens
// at build time.
func (rc *RunConfig) Validate() error {
	if rc.Name == "" {
		return fmt.Errorf("run requires a name")
	}
	if rc.Scenario.Start == "" {
		return fmt.Errorf("scenario requires a start date")
	}
	if rc.Scenario.Preset == "" && rc.Scenario.Shock == nil {
		return fmt.Errorf("scenario requires a preset name or a custom shock")
	}
	if len(rc.Portfolio) == 0 {
		return fmt.Errorf("run requires at least one base position")
	}
	for i, spec := range rc.Portfolio {
		if err := validateSpec(spec, true); err != nil {
			return fmt.Errorf("portfolio position %d: %w", i, err)
		}
	}
	if rc.GammaHedge != nil {
		if err := validateSpec(*rc.GammaHedge, false); err != nil {
			return fmt.Errorf("gamma hedge: %w", err)
		}
	}
	if rc.VegaHedge != nil {
		if err := validateSpec(*rc.VegaHedge, false); err != nil {
			return fmt.Errorf("vega hedge: %w", err)
		}
	}
	return nil
}

func validateSpec(spec InstrumentSpec, wantQty bool) error {
	switch spec.Kind {
	case "underlying":
	case "call", "put":
		if spec.Strike <= 0 {
			return fmt.Errorf("option requires a positive strike, got %v", spec.Strike)
		}
		if spec.Expiry == "" {
			return fmt.Errorf("option requires an expiry date")
		}
	default:
		return fmt.Errorf("unknown instrument kind %q", spec.Kind)
	}
	if wantQty && spec.Qty == 0 {
		return fmt.Errorf("position requires a non-zero quantity")
	}
	return nil
}
