package hedge

import (
	"fmt"
	"math"
)

// Default half-spread bases in basis points. Options trade roughly 20x wider
// than the underlying.
const (
	DefaultStockSpreadBps  = 5.0
	DefaultOptionSpreadBps = 100.0
)

// FrictionModel prices transaction friction with a liquidity-haircut model:
// spreads widen proportionally to the ratio of current volatility over the
// scenario's starting volatility, so trading into a crash costs multiples of
// trading a calm market.
type FrictionModel struct {
	baseVol   float64
	stockBps  float64
	optionBps float64
}

// NewFrictionModel builds a friction model anchored at the scenario's Day-0
// volatility.
func NewFrictionModel(baseVol, stockBps, optionBps float64) (FrictionModel, error) {
	if baseVol <= 0 {
		return FrictionModel{}, fmt.Errorf("base vol must be positive, got %v", baseVol)
	}
	if stockBps < 0 || optionBps < 0 {
		return FrictionModel{}, fmt.Errorf("spread bps must be non-negative, got stock=%v option=%v", stockBps, optionBps)
	}
	return FrictionModel{baseVol: baseVol, stockBps: stockBps, optionBps: optionBps}, nil
}

// Cost returns the spread charge for crossing half the bid-ask on the given
// notional at the current volatility. Always non-negative, zero only for a
// zero notional.
func (m FrictionModel) Cost(notional, currentVol float64, isOption bool) float64 {
	multiplier := currentVol / m.baseVol

	base := m.stockBps
	if isOption {
		base = m.optionBps
	}

	spread := (base * multiplier) / 10000.0
	return math.Abs(notional) * spread / 2.0
}
