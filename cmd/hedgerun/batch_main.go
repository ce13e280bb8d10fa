package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/hedgerun/internal/batch"
	"github.com/sawpanic/hedgerun/internal/config"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a batch of simulations concurrently",
		Long: `Execute every run in a batch configuration. Runs are independent (each
owns its ledger and market feed) and execute across a bounded worker pool.`,
		RunE: runBatch,
	}

	cmd.Flags().String("config", "", "batch configuration yaml (required)")
	cmd.Flags().Int("parallel", 0, "max concurrent runs (0 = use config value)")
	cmd.Flags().String("out", "./out/hedgerun", "artifact output directory")
	cmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address during the batch")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	parallel, _ := cmd.Flags().GetInt("parallel")
	outputDir, _ := cmd.Flags().GetString("out")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	bc, err := config.LoadBatchConfig(configPath)
	if err != nil {
		return err
	}
	if parallel > 0 {
		bc.Parallel = parallel
	}

	absOutputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	runner := batch.NewRunner(bc, absOutputDir)

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", runner.Metrics().Handler())
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn().Err(err).Msg("Metrics server stopped")
			}
		}()
		log.Info().Str("addr", metricsAddr).Msg("Serving Prometheus metrics")
	}

	log.Info().
		Int("runs", len(bc.Runs)).
		Int("parallel", bc.Parallel).
		Str("output_dir", absOutputDir).
		Msg("Starting batch")

	started := time.Now()
	results, err := runner.Run(cmd.Context())

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}

	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	failed := 0
	fmt.Printf("Batch complete: %d runs in %v\n\n", len(results), time.Since(started).Round(time.Millisecond))
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("  %-28s FAILED: %v\n", res.Name, res.Err)
			continue
		}
		fmt.Printf("  %-28s pnl=%12.2f  txn=%10.2f  steps=%d\n",
			res.Name, res.Summary.FinalPnL, res.Summary.TotalTxnCost, res.Summary.Steps)
	}
	fmt.Printf("\nArtifacts: %s\n", absOutputDir)

	log.Info().
		Int("succeeded", len(results)-failed).
		Int("failed", failed).
		Dur("elapsed", time.Since(started)).
		Msg("Batch completed")

	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(results))
	}
	return nil
}
