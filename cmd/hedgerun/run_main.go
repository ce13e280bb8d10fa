package main

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/hedgerun/internal/batch"
	"github.com/sawpanic/hedgerun/internal/config"
	"github.com/sawpanic/hedgerun/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one hedging simulation",
		Long: `Run a single simulation: either a full run configuration from --config,
or the demo book (short ATM straddle with gamma and vega hedge options)
against a preset stress scenario.`,
		RunE: runSimulation,
	}

	cmd.Flags().String("config", "", "run configuration yaml (overrides scenario flags)")
	cmd.Flags().String("scenario", "covid_crash_2020", "preset scenario for the demo book")
	cmd.Flags().String("start", "2020-02-24", "scenario start date (YYYY-MM-DD)")
	cmd.Flags().Int("rehedge-interval", 1, "steps between rebalances (1 = every step)")
	cmd.Flags().String("out", "./out/hedgerun", "artifact output directory")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	scenario, _ := cmd.Flags().GetString("scenario")
	start, _ := cmd.Flags().GetString("start")
	interval, _ := cmd.Flags().GetInt("rehedge-interval")
	outputDir, _ := cmd.Flags().GetString("out")

	if interval <= 0 {
		return fmt.Errorf("rehedge-interval must be positive, got: %d", interval)
	}

	var rc *config.RunConfig
	var err error
	if configPath != "" {
		rc, err = config.LoadRunConfig(configPath)
	} else {
		rc, err = config.DemoRun(scenario, start)
		if err == nil {
			rc.Engine.RehedgeInterval = interval
		}
	}
	if err != nil {
		return err
	}

	absOutputDir, err := filepath.Abs(filepath.Join(outputDir, rc.Name))
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	log.Info().
		Str("run", rc.Name).
		Str("scenario", batch.ScenarioLabel(rc)).
		Int("rehedge_interval", rc.Engine.RehedgeInterval).
		Str("output_dir", absOutputDir).
		Msg("Starting hedging simulation")

	eng, _, err := batch.BuildRun(rc)
	if err != nil {
		return fmt.Errorf("failed to build run: %w", err)
	}

	rows, err := eng.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	summary := report.Summarize(rc.Name, batch.ScenarioLabel(rc), rows)

	writer := report.NewWriter(absOutputDir)
	if err := writer.WriteCSV(rows); err != nil {
		return err
	}
	if err := writer.WriteJSONL(summary, rows); err != nil {
		return err
	}
	if err := writer.WriteReport(summary, rows); err != nil {
		return err
	}

	first, last := rows[0], rows[len(rows)-1]
	fmt.Printf("Simulation complete: %s\n\n", rc.Name)
	fmt.Printf("  Steps:         %d (%s → %s)\n", summary.Steps,
		first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"))
	fmt.Printf("  Spot path:     %.2f → %.2f\n", first.Spot, last.Spot)
	fmt.Printf("  Final P&L:     %.2f\n", summary.FinalPnL)
	fmt.Printf("  Worst P&L:     %.2f\n", summary.MinPnL)
	fmt.Printf("  Txn cost:      %.2f\n", summary.TotalTxnCost)
	fmt.Printf("  Funding cost:  %.2f\n", summary.TotalFunding)
	fmt.Printf("\nArtifacts: %s\n", writer.OutputDir())

	log.Info().
		Int("steps", summary.Steps).
		Float64("final_pnl", summary.FinalPnL).
		Float64("txn_cost", summary.TotalTxnCost).
		Str("artifacts_dir", writer.OutputDir()).
		Msg("Simulation completed")

	return nil
}
