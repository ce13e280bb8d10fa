package instrument

import "time"

// Instrument is the pricing and risk capability consumed by the hedging
// engine. Every method is a pure function of the four market inputs: spot,
// valuation date, risk-free rate, and volatility. Implementations must not
// share state between calls and must return finite values for valid inputs.
type Instrument interface {
	Price(spot float64, date time.Time, rate, vol float64) float64
	Delta(spot float64, date time.Time, rate, vol float64) float64
	Gamma(spot float64, date time.Time, rate, vol float64) float64
	Vega(spot float64, date time.Time, rate, vol float64) float64
}

// Underlying is the degenerate instrument for the spot asset itself:
// delta 1, gamma 0, vega 0, price equal to spot.
type Underlying struct{}

func (Underlying) Price(spot float64, _ time.Time, _, _ float64) float64 { return spot }
func (Underlying) Delta(_ float64, _ time.Time, _, _ float64) float64   { return 1.0 }
func (Underlying) Gamma(_ float64, _ time.Time, _, _ float64) float64   { return 0.0 }
func (Underlying) Vega(_ float64, _ time.Time, _, _ float64) float64    { return 0.0 }
