package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	appName = "hedgerun"
	version = "v1.0.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := &cobra.Command{
		Use:     appName,
		Version: version,
		Short:   "Derivatives desk dynamic hedging simulator",
		Long: `hedgerun simulates a derivatives trading desk re-hedging a portfolio
through a market-stress path: a strict gamma → vega → delta rebalancing
cascade, volatility-scaled transaction friction, and asymmetric funding on
the hedge cash ledger.`,
	}

	rootCmd.AddCommand(newRunCmd(), newBatchCmd(), newScenariosCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("hedgerun failed")
		os.Exit(1)
	}
}
