package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sawpanic/hedgerun/internal/hedge"
)

// Summary condenses one run's result series for reporting.
type Summary struct {
	Name         string  `json:"name"`
	Scenario     string  `json:"scenario"`
	Steps        int     `json:"steps"`
	FinalPnL     float64 `json:"final_pnl"`
	MinPnL       float64 `json:"min_pnl"`
	TotalTxnCost float64 `json:"total_txn_cost"`
	TotalFunding float64 `json:"total_funding"`
}

// Summarize folds a result series into a Summary.
func Summarize(name, scenario string, rows []hedge.ResultRow) Summary {
	s := Summary{Name: name, Scenario: scenario, Steps: len(rows)}
	for i, r := range rows {
		if i == 0 || r.TotalPnL < s.MinPnL {
			s.MinPnL = r.TotalPnL
		}
		s.TotalTxnCost += r.TxnCost
		s.TotalFunding += r.FundingCost
	}
	if len(rows) > 0 {
		s.FinalPnL = rows[len(rows)-1].TotalPnL
	}
	return s
}

// Writer emits run artifacts (results CSV, JSONL, and a markdown report)
// under a per-run output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// OutputDir returns the artifact directory.
func (w *Writer) OutputDir() string { return w.outputDir }

const dateLayout = "2006-01-02"

// WriteCSV writes the result series as results.csv, one row per simulation
// date.
func (w *Writer) WriteCSV(rows []hedge.ResultRow) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(w.outputDir, "results.csv"))
	if err != nil {
		return fmt.Errorf("failed to create results CSV: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"date", "spot", "total_pnl", "stock_pos", "gamma_hedge_pos", "vega_hedge_pos", "txn_cost", "funding_cost"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format(dateLayout),
			formatFloat(r.Spot),
			formatFloat(r.TotalPnL),
			formatFloat(r.StockPos),
			formatFloat(r.GammaHedgePos),
			formatFloat(r.VegaHedgePos),
			formatFloat(r.TxnCost),
			formatFloat(r.FundingCost),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSONL writes each result row as one JSON line in results.jsonl, with
// the run summary as the final line.
func (w *Writer) WriteJSONL(summary Summary, rows []hedge.ResultRow) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(w.outputDir, "results.jsonl"))
	if err != nil {
		return fmt.Errorf("failed to create results JSONL: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result row: %w", err)
		}
	}
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// WriteReport writes a human-readable markdown report as report.md.
func (w *Writer) WriteReport(summary Summary, rows []hedge.ResultRow) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Hedging Run: %s\n\n", summary.Name)
	fmt.Fprintf(&b, "Scenario: **%s** over %d steps\n\n", summary.Scenario, summary.Steps)
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Final P&L | %.2f |\n", summary.FinalPnL)
	fmt.Fprintf(&b, "| Worst P&L | %.2f |\n", summary.MinPnL)
	fmt.Fprintf(&b, "| Total transaction cost | %.2f |\n", summary.TotalTxnCost)
	fmt.Fprintf(&b, "| Total funding cost | %.2f |\n\n", summary.TotalFunding)

	if len(rows) > 0 {
		first, last := rows[0], rows[len(rows)-1]
		fmt.Fprintf(&b, "Spot path: %.2f → %.2f (%s → %s)\n",
			first.Spot, last.Spot, first.Date.Format(dateLayout), last.Date.Format(dateLayout))
	}

	if err := os.WriteFile(filepath.Join(w.outputDir, "report.md"), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
