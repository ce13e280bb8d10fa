package instrument

import (
	"math"
	"time"
)

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// expiredT is the time-to-maturity threshold below which an option is valued
// at intrinsic and its gamma/vega are pinned to zero. Gamma explodes at expiry
// when at-the-money; clamping keeps the cascade numerically stable.
const expiredT = 1e-6

// EuropeanOption is a vanilla European option priced with Black-Scholes.
// Time to maturity uses calendar-day difference on an ACT/365 convention.
type EuropeanOption struct {
	Strike float64
	Expiry time.Time
	Type   OptionType
}

// NewCall returns a European call with the given strike and expiry.
func NewCall(strike float64, expiry time.Time) EuropeanOption {
	return EuropeanOption{Strike: strike, Expiry: expiry, Type: Call}
}

// NewPut returns a European put with the given strike and expiry.
func NewPut(strike float64, expiry time.Time) EuropeanOption {
	return EuropeanOption{Strike: strike, Expiry: expiry, Type: Put}
}

// yearsToExpiry converts the whole-day gap between date and expiry to years.
// Expired contracts report zero.
func (o EuropeanOption) yearsToExpiry(date time.Time) float64 {
	days := math.Floor(o.Expiry.Sub(date).Hours() / 24.0)
	if days < 0 {
		return 0.0
	}
	return days / 365.0
}

func (o EuropeanOption) d1d2(spot, t, rate, vol float64) (float64, float64) {
	if t <= expiredT {
		return 0.0, 0.0
	}
	d1 := (math.Log(spot/o.Strike) + (rate+0.5*vol*vol)*t) / (vol * math.Sqrt(t))
	return d1, d1 - vol*math.Sqrt(t)
}

// Price returns the Black-Scholes fair value, falling back to intrinsic value
// at or after expiry.
func (o EuropeanOption) Price(spot float64, date time.Time, rate, vol float64) float64 {
	t := o.yearsToExpiry(date)
	if t <= expiredT {
		if o.Type == Call {
			return math.Max(0.0, spot-o.Strike)
		}
		return math.Max(0.0, o.Strike-spot)
	}

	d1, d2 := o.d1d2(spot, t, rate, vol)
	if o.Type == Call {
		return spot*normCDF(d1) - o.Strike*math.Exp(-rate*t)*normCDF(d2)
	}
	return o.Strike*math.Exp(-rate*t)*normCDF(-d2) - spot*normCDF(-d1)
}

// Delta returns sensitivity to spot. At expiry it collapses to the
// in-the-money indicator.
func (o EuropeanOption) Delta(spot float64, date time.Time, rate, vol float64) float64 {
	t := o.yearsToExpiry(date)
	if t < expiredT {
		if o.Type == Call {
			if spot > o.Strike {
				return 1.0
			}
			return 0.0
		}
		if spot < o.Strike {
			return -1.0
		}
		return 0.0
	}

	d1, _ := o.d1d2(spot, t, rate, vol)
	if o.Type == Call {
		return normCDF(d1)
	}
	return normCDF(d1) - 1.0
}

// Gamma returns the sensitivity of delta to spot, zero at expiry.
func (o EuropeanOption) Gamma(spot float64, date time.Time, rate, vol float64) float64 {
	t := o.yearsToExpiry(date)
	if t < expiredT {
		return 0.0
	}
	d1, _ := o.d1d2(spot, t, rate, vol)
	return normPDF(d1) / (spot * vol * math.Sqrt(t))
}

// Vega returns sensitivity to volatility, scaled to a 1% vol move.
func (o EuropeanOption) Vega(spot float64, date time.Time, rate, vol float64) float64 {
	t := o.yearsToExpiry(date)
	if t <= expiredT {
		return 0.0
	}
	d1, _ := o.d1d2(spot, t, rate, vol)
	return spot * math.Sqrt(t) * normPDF(d1) / 100.0
}

func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2.0*math.Pi)
}
