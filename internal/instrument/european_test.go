package instrument

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	valDate  = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	oneYear  = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) // 365 days, T = 1.0
	lastWeek = time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)
)

func TestCallPriceATMOneYear(t *testing.T) {
	call := NewCall(100, oneYear)

	// Standard Black-Scholes reference value for S=100 K=100 r=5% vol=20% T=1.
	price := call.Price(100, valDate, 0.05, 0.20)
	assert.InDelta(t, 10.4506, price, 1e-3)

	assert.InDelta(t, 0.6368, call.Delta(100, valDate, 0.05, 0.20), 1e-3)
	assert.InDelta(t, 0.018762, call.Gamma(100, valDate, 0.05, 0.20), 1e-5)
	assert.InDelta(t, 0.37524, call.Vega(100, valDate, 0.05, 0.20), 1e-4)
}

func TestPutCallParity(t *testing.T) {
	call := NewCall(100, oneYear)
	put := NewPut(100, oneYear)

	for _, spot := range []float64{60, 85, 100, 120, 175} {
		c := call.Price(spot, valDate, 0.05, 0.20)
		p := put.Price(spot, valDate, 0.05, 0.20)
		// C - P = S - K·exp(-rT)
		forward := spot - 100*math.Exp(-0.05)
		assert.InDelta(t, forward, c-p, 1e-9, "parity violated at spot %v", spot)
	}
}

func TestExpiryBoundaryIntrinsic(t *testing.T) {
	call := NewCall(100, valDate)
	put := NewPut(100, valDate)

	// Priced on its own expiry date the option is worth exactly intrinsic.
	assert.Equal(t, 10.0, call.Price(110, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Price(90, valDate, 0.05, 0.20))
	assert.Equal(t, 10.0, put.Price(90, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, put.Price(110, valDate, 0.05, 0.20))

	// Terminal Greeks: delta collapses to the ITM indicator, gamma/vega vanish.
	assert.Equal(t, 1.0, call.Delta(110, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Delta(90, valDate, 0.05, 0.20))
	assert.Equal(t, -1.0, put.Delta(90, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Gamma(110, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Vega(110, valDate, 0.05, 0.20))
}

func TestExpiredOptionClampsToZeroTime(t *testing.T) {
	call := NewCall(100, lastWeek)

	assert.Equal(t, 5.0, call.Price(105, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Gamma(105, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, call.Vega(105, valDate, 0.05, 0.20))
}

func TestDeltaBounds(t *testing.T) {
	call := NewCall(100, oneYear)
	put := NewPut(100, oneYear)

	for _, spot := range []float64{20, 50, 100, 200, 500} {
		cd := call.Delta(spot, valDate, 0.05, 0.20)
		pd := put.Delta(spot, valDate, 0.05, 0.20)
		assert.GreaterOrEqual(t, cd, 0.0)
		assert.LessOrEqual(t, cd, 1.0)
		assert.GreaterOrEqual(t, pd, -1.0)
		assert.LessOrEqual(t, pd, 0.0)
	}

	// Deep ITM call behaves like the underlying.
	assert.InDelta(t, 1.0, call.Delta(500, valDate, 0.05, 0.20), 1e-6)
}

func TestUnderlyingIsDegenerate(t *testing.T) {
	u := Underlying{}

	assert.Equal(t, 123.45, u.Price(123.45, valDate, 0.05, 0.20))
	assert.Equal(t, 1.0, u.Delta(123.45, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, u.Gamma(123.45, valDate, 0.05, 0.20))
	assert.Equal(t, 0.0, u.Vega(123.45, valDate, 0.05, 0.20))
}
