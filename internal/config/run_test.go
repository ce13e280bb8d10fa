package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validRunYAML = `
name: covid-straddle
scenario:
  preset: covid_crash_2020
  start: "2020-02-24"
portfolio:
  - {kind: call, strike: 100, expiry: "2020-08-21", qty: -50}
  - {kind: put, strike: 100, expiry: "2020-08-21", qty: -50}
gamma_hedge: {kind: call, strike: 100, expiry: "2020-04-17"}
vega_hedge: {kind: call, strike: 100, expiry: "2021-02-19"}
engine:
  rehedge_interval: 5
`

func TestLoadRunConfig(t *testing.T) {
	rc, err := LoadRunConfig(writeTemp(t, validRunYAML))
	require.NoError(t, err)

	assert.Equal(t, "covid-straddle", rc.Name)
	assert.Equal(t, "covid_crash_2020", rc.Scenario.Preset)
	assert.Len(t, rc.Portfolio, 2)
	assert.Equal(t, -50.0, rc.Portfolio[1].Qty)
	require.NotNil(t, rc.GammaHedge)
	assert.Equal(t, "2020-04-17", rc.GammaHedge.Expiry)

	// Explicit interval kept, omitted spreads defaulted.
	assert.Equal(t, 5, rc.Engine.RehedgeInterval)
	assert.Equal(t, 5.0, rc.Engine.StockSpreadBps)
	assert.Equal(t, 100.0, rc.Engine.OptionSpreadBps)
}

func TestLoadRunConfigCustomShock(t *testing.T) {
	rc, err := LoadRunConfig(writeTemp(t, `
name: custom-crash
scenario:
  start: "2025-03-03"
  environment: {spot_start: 250, vol_start: 0.35, sofr_start: 0.05, spread_start: 0.02}
  shock: {days: 10, spot_return: -0.20, vol_mult: 3.0, d_sofr: 0.01, d_spread: 0.02}
portfolio:
  - {kind: underlying, qty: 100}
`))
	require.NoError(t, err)

	require.NotNil(t, rc.Scenario.Shock)
	assert.Equal(t, 10, rc.Scenario.Shock.Days)
	require.NotNil(t, rc.Scenario.Environment)
	assert.Equal(t, 250.0, rc.Scenario.Environment.Spot0)
	assert.Nil(t, rc.GammaHedge)
}

func TestLoadRunConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", `
scenario: {preset: covid_crash_2020, start: "2020-02-24"}
portfolio: [{kind: underlying, qty: 100}]
`},
		{"missing scenario", `
name: x
portfolio: [{kind: underlying, qty: 100}]
`},
		{"no preset or shock", `
name: x
scenario: {start: "2020-02-24"}
portfolio: [{kind: underlying, qty: 100}]
`},
		{"empty portfolio", `
name: x
scenario: {preset: covid_crash_2020, start: "2020-02-24"}
`},
		{"bad instrument kind", `
name: x
scenario: {preset: covid_crash_2020, start: "2020-02-24"}
portfolio: [{kind: swaption, qty: 100}]
`},
		{"option without strike", `
name: x
scenario: {preset: covid_crash_2020, start: "2020-02-24"}
portfolio: [{kind: call, expiry: "2020-08-21", qty: 100}]
`},
		{"zero quantity", `
name: x
scenario: {preset: covid_crash_2020, start: "2020-02-24"}
portfolio: [{kind: underlying, qty: 0}]
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadRunConfig(writeTemp(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadBatchConfig(t *testing.T) {
	bc, err := LoadBatchConfig(writeTemp(t, `
parallel: 2
runs:
  - name: covid
    scenario: {preset: covid_crash_2020, start: "2020-02-24"}
    portfolio: [{kind: underlying, qty: 100}]
  - name: repo
    scenario: {preset: repo_crisis_2019, start: "2019-09-16"}
    portfolio: [{kind: underlying, qty: 100}]
`))
	require.NoError(t, err)
	assert.Equal(t, 2, bc.Parallel)
	require.Len(t, bc.Runs, 2)
	assert.Equal(t, 1, bc.Runs[0].Engine.RehedgeInterval)
}

func TestLoadBatchConfigRejectsDuplicateNames(t *testing.T) {
	_, err := LoadBatchConfig(writeTemp(t, `
runs:
  - name: same
    scenario: {preset: covid_crash_2020, start: "2020-02-24"}
    portfolio: [{kind: underlying, qty: 100}]
  - name: same
    scenario: {preset: repo_crisis_2019, start: "2019-09-16"}
    portfolio: [{kind: underlying, qty: 100}]
`))
	assert.Error(t, err)
}

func TestDemoRun(t *testing.T) {
	rc, err := DemoRun("covid_crash_2020", "2020-02-24")
	require.NoError(t, err)
	require.NoError(t, rc.Validate())

	assert.Equal(t, "demo-covid_crash_2020", rc.Name)
	assert.Len(t, rc.Portfolio, 2)
	assert.NotNil(t, rc.GammaHedge)
	assert.NotNil(t, rc.VegaHedge)
	assert.Equal(t, "2020-08-24", rc.Portfolio[0].Expiry)

	_, err = DemoRun("covid_crash_2020", "not-a-date")
	assert.Error(t, err)
}
