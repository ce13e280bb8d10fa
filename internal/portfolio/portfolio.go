package portfolio

import (
	"github.com/sawpanic/hedgerun/internal/instrument"
	"github.com/sawpanic/hedgerun/internal/market"
)

// Position pairs an instrument with a signed quantity. Positions are never
// mutated in place; risk views are rebuilt per evaluation so Greeks cannot
// go stale across snapshots.
type Position struct {
	Inst instrument.Instrument
	Qty  float64
}

// RiskVector holds the aggregate sensitivities of a position set at one
// market snapshot. Purely derived and recomputed on demand.
type RiskVector struct {
	Price float64
	Delta float64
	Gamma float64
	Vega  float64
}

// Book is the base portfolio: immutable for the lifetime of a run once
// handed to the engine.
type Book struct {
	positions []Position
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{}
}

// Add appends a position to the book.
func (b *Book) Add(inst instrument.Instrument, qty float64) {
	b.positions = append(b.positions, Position{Inst: inst, Qty: qty})
}

// Positions returns the book's positions in insertion order.
func (b *Book) Positions() []Position {
	return b.positions
}

// Aggregate sums quantity-weighted price and Greeks over a position set at
// the given snapshot, discounting at its SOFR. Stateless and
// order-independent; an empty set yields the zero vector.
func Aggregate(positions []Position, snap market.Snapshot) RiskVector {
	var rv RiskVector
	for _, p := range positions {
		rv.Price += p.Qty * p.Inst.Price(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		rv.Delta += p.Qty * p.Inst.Delta(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		rv.Gamma += p.Qty * p.Inst.Gamma(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
		rv.Vega += p.Qty * p.Inst.Vega(snap.Spot, snap.Date, snap.SOFR, snap.Vol)
	}
	return rv
}
