package market

import (
	"fmt"
	"time"
)

// Snapshot is one daily observation of the market state. Produced by the
// scenario generator (or any external source) and only ever read by the
// hedging engine.
type Snapshot struct {
	Date         time.Time `json:"date"`
	Spot         float64   `json:"spot"`
	Vol          float64   `json:"vol"`
	SOFR         float64   `json:"sofr"`
	CreditSpread float64   `json:"credit_spread"`
}

// Feed is a finite ordered series of snapshots, strictly increasing by date,
// with at least one element. Element 0 drives Day-0 hedge neutralization.
type Feed struct {
	snaps []Snapshot
}

// NewFeed validates and wraps a snapshot series.
func NewFeed(snaps []Snapshot) (*Feed, error) {
	if len(snaps) == 0 {
		return nil, fmt.Errorf("market feed requires at least one snapshot")
	}
	for i, s := range snaps {
		if s.Spot <= 0 {
			return nil, fmt.Errorf("snapshot %d (%s): spot must be positive, got %v", i, s.Date.Format("2006-01-02"), s.Spot)
		}
		if s.Vol <= 0 {
			return nil, fmt.Errorf("snapshot %d (%s): vol must be positive, got %v", i, s.Date.Format("2006-01-02"), s.Vol)
		}
		if s.CreditSpread < 0 {
			return nil, fmt.Errorf("snapshot %d (%s): credit spread must be non-negative, got %v", i, s.Date.Format("2006-01-02"), s.CreditSpread)
		}
		if i > 0 && !snaps[i-1].Date.Before(s.Date) {
			return nil, fmt.Errorf("snapshot %d (%s): dates must be strictly increasing", i, s.Date.Format("2006-01-02"))
		}
	}
	return &Feed{snaps: snaps}, nil
}

// Len returns the number of snapshots.
func (f *Feed) Len() int { return len(f.snaps) }

// At returns the snapshot at index i.
func (f *Feed) At(i int) Snapshot { return f.snaps[i] }

// First returns the Day-0 snapshot.
func (f *Feed) First() Snapshot { return f.snaps[0] }

// Snapshots returns the underlying series in feed order.
func (f *Feed) Snapshots() []Snapshot { return f.snaps }
