package hedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrictionCostBaseline(t *testing.T) {
	m, err := NewFrictionModel(0.20, 5, 100)
	require.NoError(t, err)

	// At base vol the multiplier is 1: stock pays 5bps/2, options 100bps/2.
	assert.InDelta(t, 10000*0.0005/2, m.Cost(10000, 0.20, false), 1e-9)
	assert.InDelta(t, 10000*0.0100/2, m.Cost(10000, 0.20, true), 1e-9)
}

func TestFrictionCostMonotonicInVol(t *testing.T) {
	m, err := NewFrictionModel(0.20, 5, 100)
	require.NoError(t, err)

	prev := 0.0
	for _, vol := range []float64{0.10, 0.20, 0.40, 0.80, 1.60} {
		c := m.Cost(50000, vol, true)
		assert.Greater(t, c, prev, "cost must increase with vol")
		prev = c
	}

	// Panic vol at 4x base widens the spread 4x.
	assert.InDelta(t, 4*m.Cost(50000, 0.20, false), m.Cost(50000, 0.80, false), 1e-9)
}

func TestFrictionCostZeroIffZeroNotional(t *testing.T) {
	m, err := NewFrictionModel(0.20, 5, 100)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.Cost(0, 0.80, true))
	assert.Greater(t, m.Cost(1, 0.20, false), 0.0)
	assert.Greater(t, m.Cost(-1, 0.20, false), 0.0)
}

func TestFrictionCostSignIndependent(t *testing.T) {
	m, err := NewFrictionModel(0.20, 5, 100)
	require.NoError(t, err)

	assert.Equal(t, m.Cost(25000, 0.35, true), m.Cost(-25000, 0.35, true))
}

func TestOptionCostsAtLeast20xStock(t *testing.T) {
	m, err := NewFrictionModel(0.20, DefaultStockSpreadBps, DefaultOptionSpreadBps)
	require.NoError(t, err)

	for _, vol := range []float64{0.10, 0.20, 0.50, 1.00} {
		ratio := m.Cost(10000, vol, true) / m.Cost(10000, vol, false)
		assert.GreaterOrEqual(t, ratio, 20.0, "option/stock cost ratio at vol %v", vol)
	}
}

func TestFrictionModelValidation(t *testing.T) {
	_, err := NewFrictionModel(0, 5, 100)
	assert.Error(t, err)

	_, err = NewFrictionModel(0.2, -1, 100)
	assert.Error(t, err)

	_, err = NewFrictionModel(0.2, 5, -1)
	assert.Error(t, err)
}
