package hedge

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/hedgerun/internal/instrument"
	"github.com/sawpanic/hedgerun/internal/market"
	"github.com/sawpanic/hedgerun/internal/portfolio"
)

// Config holds the recognized engine options.
type Config struct {
	RehedgeInterval int     `yaml:"rehedge_interval"` // 1 = rehedge every step
	StockSpreadBps  float64 `yaml:"stock_spread_bps"`
	OptionSpreadBps float64 `yaml:"option_spread_bps"`
}

// DefaultConfig returns the desk's standard settings: daily rehedging,
// 5bps stock spread, 100bps option spread.
func DefaultConfig() *Config {
	return &Config{
		RehedgeInterval: 1,
		StockSpreadBps:  DefaultStockSpreadBps,
		OptionSpreadBps: DefaultOptionSpreadBps,
	}
}

func (c *Config) validate() error {
	if c.RehedgeInterval < 1 {
		return fmt.Errorf("rehedge interval must be a positive integer, got %d", c.RehedgeInterval)
	}
	if c.StockSpreadBps < 0 || c.OptionSpreadBps < 0 {
		return fmt.Errorf("spread bps must be non-negative, got stock=%v option=%v", c.StockSpreadBps, c.OptionSpreadBps)
	}
	return nil
}

// ResultRow is one simulation date's output: mark-to-market P&L, the hedge
// position snapshot, and the step's transaction and funding costs.
type ResultRow struct {
	Date          time.Time `json:"date"`
	Spot          float64   `json:"spot"`
	TotalPnL      float64   `json:"total_pnl"`
	StockPos      float64   `json:"stock_pos"`
	GammaHedgePos float64   `json:"gamma_hedge_pos"`
	VegaHedgePos  float64   `json:"vega_hedge_pos"`
	TxnCost       float64   `json:"txn_cost"`
	FundingCost   float64   `json:"funding_cost"`
}

// Engine time-steps one hedging run: a base book re-hedged through a market
// feed with a strict gamma, vega, delta priority cascade. One Engine owns one
// Ledger for one run; independent runs share nothing and may execute
// concurrently.
type Engine struct {
	cfg       *Config
	book      *portfolio.Book
	feed      *market.Feed
	gammaInst instrument.Instrument // nil when no gamma hedging is configured
	vegaInst  instrument.Instrument // nil when no vega hedging is configured
	friction  FrictionModel
	ledger    Ledger
	step      int
}

// New constructs an engine and performs the Day-0 pre-hedge against the
// feed's first snapshot: the book may be violently directional before the
// simulation starts, so the desk buys hedges up front, funding them with
// borrowed cash. Day-0 establishment trades are frictionless; every
// subsequent rehedge pays spread.
func New(cfg *Config, book *portfolio.Book, feed *market.Feed, gammaInst, vegaInst instrument.Instrument) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if book == nil {
		return nil, fmt.Errorf("engine requires a base portfolio")
	}
	if feed == nil || feed.Len() == 0 {
		return nil, fmt.Errorf("engine requires a non-empty market feed")
	}

	friction, err := NewFrictionModel(feed.First().Vol, cfg.StockSpreadBps, cfg.OptionSpreadBps)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		book:      book,
		feed:      feed,
		gammaInst: gammaInst,
		vegaInst:  vegaInst,
		friction:  friction,
	}
	e.neutralize(feed.First())
	return e, nil
}

// Ledger returns a copy of the current hedge state.
func (e *Engine) Ledger() Ledger {
	return e.ledger
}

// Run executes the simulation over the full feed and returns one ResultRow
// per snapshot, in feed order. Each step depends on the mutated ledger of the
// previous one, so the loop is strictly sequential.
func (e *Engine) Run(ctx context.Context) ([]ResultRow, error) {
	rows := make([]ResultRow, 0, e.feed.Len())
	for i := 0; i < e.feed.Len(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		snap := e.feed.At(i)

		funding := e.ledger.AccrueFunding(snap.SOFR, snap.CreditSpread)

		var txnCost float64
		if e.step%e.cfg.RehedgeInterval == 0 {
			txnCost = e.rebalance(snap)
		}

		rows = append(rows, e.valuation(snap, txnCost, funding))
		e.step++
	}
	return rows, nil
}

// valuation marks the book and hedges to market. The conservation identity
// total_pnl = pv_base + pv_hedges + cash must hold after every step.
func (e *Engine) valuation(snap market.Snapshot, txnCost, funding float64) ResultRow {
	pvBase := portfolio.Aggregate(e.book.Positions(), snap).Price

	pvHedges := e.ledger.Stock * snap.Spot
	if e.gammaInst != nil {
		pvHedges += e.ledger.GammaHedge * e.gammaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	if e.vegaInst != nil {
		pvHedges += e.ledger.VegaHedge * e.vegaInst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}

	return ResultRow{
		Date:          snap.Date,
		Spot:          snap.Spot,
		TotalPnL:      pvBase + pvHedges + e.ledger.Cash,
		StockPos:      e.ledger.Stock,
		GammaHedgePos: e.ledger.GammaHedge,
		VegaHedgePos:  e.ledger.VegaHedge,
		TxnCost:       txnCost,
		FundingCost:   funding,
	}
}
