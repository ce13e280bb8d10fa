package hedge

import (
	"math"

	"github.com/sawpanic/hedgerun/internal/market"
	"github.com/sawpanic/hedgerun/internal/portfolio"
)

// epsGreek guards against sizing a trade off a hedge instrument with no
// sensitivity left (e.g. an option at its own expiry). A unit Greek inside
// this band silently skips the stage instead of producing an unstable trade.
const epsGreek = 1e-9

// contractMultiplier scales option trade notionals for friction pricing,
// the standard 100-share contract convention.
const contractMultiplier = 100.0

// neutralize performs the Day-0 pre-hedge: size the gamma hedge off the base
// book, fold its side effects into the vega sizing, fold both hedges' delta
// into the stock sizing, then borrow the cash that establishing all three
// legs costs. Hedging most-nonlinear-first guarantees the book ends neutral
// on every axis.
func (e *Engine) neutralize(snap market.Snapshot) {
	base := portfolio.Aggregate(e.book.Positions(), snap)

	if e.gammaInst != nil {
		unitGamma := e.gammaInst.Gamma(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		if math.Abs(unitGamma) > epsGreek {
			e.ledger.GammaHedge = -base.Gamma / unitGamma
		}
	}

	if e.vegaInst != nil {
		addedVega := 0.0
		if e.gammaInst != nil {
			addedVega = e.ledger.GammaHedge * e.gammaInst.Vega(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		}
		unitVega := e.vegaInst.Vega(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		if math.Abs(unitVega) > epsGreek {
			e.ledger.VegaHedge = -(base.Vega + addedVega) / unitVega
		}
	}

	addedDelta := 0.0
	if e.gammaInst != nil {
		addedDelta += e.ledger.GammaHedge * e.gammaInst.Delta(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	if e.vegaInst != nil {
		addedDelta += e.ledger.VegaHedge * e.vegaInst.Delta(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	e.ledger.Stock = -(base.Delta + addedDelta)

	// Borrow to fund the long legs, receive cash for the short ones.
	cost := e.ledger.Stock * snap.Spot
	if e.gammaInst != nil {
		cost += e.ledger.GammaHedge * e.gammaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	if e.vegaInst != nil {
		cost += e.ledger.VegaHedge * e.vegaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	e.ledger.Cash = -cost
}

// riskView aggregates the base book plus the hedge positions already held,
// giving the net Greeks the cascade must flatten this step.
func (e *Engine) riskView(snap market.Snapshot) portfolio.RiskVector {
	positions := make([]portfolio.Position, 0, len(e.book.Positions())+2)
	positions = append(positions, e.book.Positions()...)
	if e.ledger.GammaHedge != 0 {
		positions = append(positions, portfolio.Position{Inst: e.gammaInst, Qty: e.ledger.GammaHedge})
	}
	if e.ledger.VegaHedge != 0 {
		positions = append(positions, portfolio.Position{Inst: e.vegaInst, Qty: e.ledger.VegaHedge})
	}
	return portfolio.Aggregate(positions, snap)
}

// rebalance runs the strict-priority cascade for one step and returns the
// total friction paid. The working risk view is threaded through the stages:
// each stage must see the side effects of the trades before it, so gamma
// updates the view's vega and delta, and vega updates its delta, before the
// final stock trade is sized.
func (e *Engine) rebalance(snap market.Snapshot) float64 {
	view := e.riskView(snap)

	costGamma := e.rehedgeGamma(&view, snap)
	costVega := e.rehedgeVega(&view, snap)
	costDelta := e.rehedgeDelta(&view, snap)

	return costGamma + costVega + costDelta
}

// rehedgeGamma trades the gamma instrument to flatten net gamma, then folds
// the trade's vega and delta into the working view.
func (e *Engine) rehedgeGamma(view *portfolio.RiskVector, snap market.Snapshot) float64 {
	if e.gammaInst == nil {
		return 0
	}
	unitGamma := e.gammaInst.Gamma(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	if math.Abs(unitGamma) <= epsGreek {
		return 0
	}

	tradeQty := -view.Gamma / unitGamma
	price := e.gammaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	cost := e.friction.Cost(tradeQty*price*contractMultiplier, snap.Vol, true)

	e.ledger.Settle(tradeQty, price, cost)
	e.ledger.GammaHedge += tradeQty

	view.Vega += tradeQty * e.gammaInst.Vega(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	view.Delta += tradeQty * e.gammaInst.Delta(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	return cost
}

// rehedgeVega trades the vega instrument to flatten net vega, then folds the
// trade's delta into the working view.
func (e *Engine) rehedgeVega(view *portfolio.RiskVector, snap market.Snapshot) float64 {
	if e.vegaInst == nil {
		return 0
	}
	unitVega := e.vegaInst.Vega(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	if math.Abs(unitVega) <= epsGreek {
		return 0
	}

	tradeQty := -view.Vega / unitVega
	price := e.vegaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	cost := e.friction.Cost(tradeQty*price*contractMultiplier, snap.Vol, true)

	e.ledger.Settle(tradeQty, price, cost)
	e.ledger.VegaHedge += tradeQty

	view.Delta += tradeQty * e.vegaInst.Delta(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	return cost
}

// rehedgeDelta replaces the stock position with the exact delta-neutral
// target. Unlike the option stages this is not incremental: the underlying
// carries no exposure worth preserving, so the position is set, not adjusted.
func (e *Engine) rehedgeDelta(view *portfolio.RiskVector, snap market.Snapshot) float64 {
	target := -view.Delta
	trade := target - e.ledger.Stock

	cost := e.friction.Cost(trade*snap.Spot, snap.Vol, false)
	e.ledger.Settle(trade, snap.Spot, cost)
	e.ledger.Stock = target
	return cost
}
