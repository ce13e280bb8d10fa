package market

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateLengthAndCalendar(t *testing.T) {
	env := DefaultEnvironment()
	start := time.Date(2020, 2, 24, 0, 0, 0, 0, time.UTC) // a Monday

	feed, err := env.Simulate(start, Shock{Days: 20, SpotReturn: -0.30, VolMult: 4.0})
	require.NoError(t, err)

	assert.Equal(t, 21, feed.Len())
	for _, s := range feed.Snapshots() {
		wd := s.Date.Weekday()
		assert.NotEqual(t, time.Saturday, wd)
		assert.NotEqual(t, time.Sunday, wd)
	}

	// Strictly increasing dates (implied by NewFeed, but assert anyway).
	for i := 1; i < feed.Len(); i++ {
		assert.True(t, feed.At(i-1).Date.Before(feed.At(i).Date))
	}
}

func TestSimulateRollsWeekendStart(t *testing.T) {
	env := DefaultEnvironment()
	saturday := time.Date(2020, 2, 22, 0, 0, 0, 0, time.UTC)

	feed, err := env.Simulate(saturday, Shock{Days: 5, SpotReturn: -0.02, VolMult: 1.0})
	require.NoError(t, err)
	assert.Equal(t, time.Monday, feed.First().Date.Weekday())
}

func TestSimulateSpotDrift(t *testing.T) {
	env := DefaultEnvironment()
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	shock := Shock{Days: 20, SpotReturn: -0.30, VolMult: 4.0}

	feed, err := env.Simulate(start, shock)
	require.NoError(t, err)

	assert.Equal(t, 100.0, feed.First().Spot)

	// Compounded daily drift: S_n = S_0 * (1 + ret/days)^n.
	want := 100.0 * math.Pow(1-0.30/20.0, 20)
	assert.InDelta(t, want, feed.At(feed.Len()-1).Spot, 1e-9)
}

func TestVolFeedbackLoop(t *testing.T) {
	env := DefaultEnvironment()
	start := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

	crash, err := env.Simulate(start, Shock{Days: 20, SpotReturn: -0.30, VolMult: 4.0})
	require.NoError(t, err)

	// Drawdowns spike vol above its starting level and keep ratcheting.
	last := crash.At(crash.Len() - 1)
	drop := (100.0 - last.Spot) / 100.0
	assert.InDelta(t, 0.20*(1+drop*4.0), last.Vol, 1e-9)
	assert.Greater(t, last.Vol, crash.First().Vol)

	// Rallies decay vol slightly, floored at minVol.
	rally, err := env.Simulate(start, Shock{Days: 20, SpotReturn: 0.10, VolMult: 0.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.20*0.95, rally.At(5).Vol, 1e-9)
}

func TestSimulateRatesAndSpreads(t *testing.T) {
	env := DefaultEnvironment()
	start := time.Date(2019, 9, 16, 0, 0, 0, 0, time.UTC)

	feed, err := env.Simulate(start, Shock{Days: 5, SpotReturn: -0.02, VolMult: 2.0, DSOFR: 0.05, DSpread: 0.03})
	require.NoError(t, err)

	last := feed.At(feed.Len() - 1)
	assert.InDelta(t, 0.04+0.05, last.SOFR, 1e-9)
	assert.InDelta(t, 0.01+0.03, last.CreditSpread, 1e-9)
}

func TestSimulateRejectsNonPositiveDays(t *testing.T) {
	env := DefaultEnvironment()
	_, err := env.Simulate(time.Now(), Shock{Days: 0})
	assert.Error(t, err)
}

func TestPresetLibrary(t *testing.T) {
	all := Presets()
	require.Len(t, all, 6)

	covid, err := LookupPreset("covid_crash_2020")
	require.NoError(t, err)
	assert.Equal(t, 20, covid.Shock.Days)
	assert.Equal(t, -0.30, covid.Shock.SpotReturn)
	assert.Equal(t, 4.0, covid.Shock.VolMult)

	_, err = LookupPreset("dot_com_2000")
	assert.Error(t, err)
}

func TestNewFeedValidation(t *testing.T) {
	d0 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 1)
	good := Snapshot{Date: d0, Spot: 100, Vol: 0.2, SOFR: 0.04, CreditSpread: 0.01}

	cases := []struct {
		name  string
		snaps []Snapshot
	}{
		{"empty", nil},
		{"zero spot", []Snapshot{{Date: d0, Spot: 0, Vol: 0.2}}},
		{"zero vol", []Snapshot{{Date: d0, Spot: 100, Vol: 0}}},
		{"negative spread", []Snapshot{{Date: d0, Spot: 100, Vol: 0.2, CreditSpread: -0.01}}},
		{"non-increasing dates", []Snapshot{good, good}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFeed(tc.snaps)
			assert.Error(t, err)
		})
	}

	feed, err := NewFeed([]Snapshot{good, {Date: d1, Spot: 99, Vol: 0.21, SOFR: 0.04, CreditSpread: 0.01}})
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Len())
	assert.Equal(t, good, feed.First())
}
