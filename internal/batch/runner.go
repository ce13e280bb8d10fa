package batch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sawpanic/hedgerun/internal/config"
	"github.com/sawpanic/hedgerun/internal/hedge"
	"github.com/sawpanic/hedgerun/internal/report"
	"github.com/sawpanic/hedgerun/internal/telemetry"
)

// RunResult captures one run's outcome within a batch.
type RunResult struct {
	Name     string
	Scenario string
	Summary  report.Summary
	Rows     []hedge.ResultRow
	Err      error
}

// Runner executes a batch of independent simulation runs concurrently.
// Each run owns a private engine, ledger, and feed, so no locking is needed
// beyond the bounded worker group.
type Runner struct {
	cfg       *config.BatchConfig
	outputDir string
	metrics   *telemetry.MetricsRegistry
}

// NewRunner creates a batch runner writing artifacts under outputDir, one
// subdirectory per run.
func NewRunner(cfg *config.BatchConfig, outputDir string) *Runner {
	return &Runner{
		cfg:       cfg,
		outputDir: outputDir,
		metrics:   telemetry.NewMetricsRegistry(),
	}
}

// Metrics returns the runner's metrics registry, for serving during a batch.
func (r *Runner) Metrics() *telemetry.MetricsRegistry {
	return r.metrics
}

// Run executes every configured run and returns results in config order.
// A failed run is recorded in its result and does not abort the rest of the
// batch; only context cancellation stops early.
func (r *Runner) Run(ctx context.Context) ([]RunResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Parallel)

	results := make([]RunResult, len(r.cfg.Runs))
	for i := range r.cfg.Runs {
		i := i
		rc := &r.cfg.Runs[i]
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = r.runOne(ctx, rc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, rc *config.RunConfig) RunResult {
	res := RunResult{Name: rc.Name, Scenario: ScenarioLabel(rc)}

	r.metrics.ActiveRuns.Inc()
	defer r.metrics.ActiveRuns.Dec()
	started := time.Now()

	eng, _, err := BuildRun(rc)
	if err != nil {
		return r.fail(res, err)
	}

	rows, err := eng.Run(ctx)
	if err != nil {
		return r.fail(res, err)
	}

	res.Rows = rows
	res.Summary = report.Summarize(rc.Name, res.Scenario, rows)

	writer := report.NewWriter(filepath.Join(r.outputDir, rc.Name))
	if err := writer.WriteCSV(rows); err != nil {
		return r.fail(res, err)
	}
	if err := writer.WriteJSONL(res.Summary, rows); err != nil {
		return r.fail(res, err)
	}
	if err := writer.WriteReport(res.Summary, rows); err != nil {
		return r.fail(res, err)
	}

	r.metrics.RunsTotal.WithLabelValues("success").Inc()
	r.metrics.StepsTotal.Add(float64(len(rows)))
	r.metrics.RunDuration.Observe(time.Since(started).Seconds())
	r.metrics.FinalPnL.WithLabelValues(rc.Name).Set(res.Summary.FinalPnL)
	r.metrics.TxnCostTotal.WithLabelValues(rc.Name).Set(res.Summary.TotalTxnCost)

	log.Info().
		Str("run", rc.Name).
		Str("scenario", res.Scenario).
		Int("steps", res.Summary.Steps).
		Float64("final_pnl", res.Summary.FinalPnL).
		Float64("txn_cost", res.Summary.TotalTxnCost).
		Msg("Run completed")

	return res
}

func (r *Runner) fail(res RunResult, err error) RunResult {
	res.Err = err
	r.metrics.RunsTotal.WithLabelValues("error").Inc()
	r.metrics.RunErrors.WithLabelValues(res.Scenario).Inc()
	log.Warn().Err(err).Str("run", res.Name).Msg("Run failed")
	return res
}
