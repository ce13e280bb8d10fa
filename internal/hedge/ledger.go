package hedge

// tradingDays is the funding accrual day-count basis.
const tradingDays = 252.0

// Ledger owns the cash balance and hedge position quantities for exactly one
// simulation run. It is mutated only by the rebalancing cascade and by
// funding accrual, and discarded when the run completes.
type Ledger struct {
	Cash       float64
	Stock      float64
	GammaHedge float64
	VegaHedge  float64
}

// AccrueFunding applies one day of interest to the cash balance and returns
// the amount accrued. A net borrower pays SOFR plus the credit spread; a net
// lender earns only SOFR.
func (l *Ledger) AccrueFunding(sofr, creditSpread float64) float64 {
	rate := sofr
	if l.Cash < 0 {
		rate = sofr + creditSpread
	}
	funding := l.Cash * rate / tradingDays
	l.Cash += funding
	return funding
}

// Settle debits cash for a trade: quantity at price, plus the friction
// charge. Negative quantities (sales) credit cash.
func (l *Ledger) Settle(qty, price, cost float64) {
	l.Cash -= qty*price + cost
}
