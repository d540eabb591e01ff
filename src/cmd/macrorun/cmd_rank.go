package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/macrorun/macrorun/src/application/pipeline"
	"github.com/macrorun/macrorun/src/infrastructure/cache"
	"github.com/macrorun/macrorun/src/infrastructure/config"
	"github.com/macrorun/macrorun/src/infrastructure/providers"
	"github.com/macrorun/macrorun/src/infrastructure/universe"
	"github.com/macrorun/macrorun/src/internal/artifacts"
	"github.com/macrorun/macrorun/src/internal/logging"
)

var (
	rankConfigPath   string
	rankUniversePath string
	rankStart        string
	rankOutputCSV    string
	rankTopK         int
	rankVerbose      bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the country universe and publish the top-K",
	Long: `Load the country ETF universe from Excel, pull ETF prices and FX series
from Yahoo Finance, derive market and macro features, and rank the top-K
favorable countries. The result is printed and written to CSV.

Example usage:
  macrorun rank                               # built-in defaults
  macrorun rank --config config/macrorun.yaml
  macrorun rank --universe data/universe.xlsx --start 2015-01-01
  macrorun rank --top 5 --verbose`,
	RunE: runRank,
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankConfigPath, "config", "", "Path to YAML configuration (optional)")
	rankCmd.Flags().StringVar(&rankUniversePath, "universe", "", "Path to the universe .xlsx (overrides config)")
	rankCmd.Flags().StringVar(&rankStart, "start", "", "Market data start date YYYY-MM-DD (overrides config)")
	rankCmd.Flags().StringVar(&rankOutputCSV, "output", "", "Output CSV path (overrides config)")
	rankCmd.Flags().IntVar(&rankTopK, "top", 0, "Number of countries to select (overrides config)")
	rankCmd.Flags().BoolVar(&rankVerbose, "verbose", false, "Enable debug logging")
}

func runRank(cmd *cobra.Command, args []string) error {
	app, err := config.Load(rankConfigPath)
	if err != nil {
		return err
	}

	if rankUniversePath != "" {
		app.Data.UniversePath = rankUniversePath
	}
	if rankStart != "" {
		app.Data.Start = rankStart
	}
	if rankOutputCSV != "" {
		app.Data.OutputCSV = rankOutputCSV
	}
	if rankTopK > 0 {
		app.Model.TopK = rankTopK
	}
	if rankVerbose {
		app.Model.Verbose = true
	}
	if err := app.Validate(); err != nil {
		return err
	}

	logging.Setup(app.Model.Verbose)

	start, err := app.StartDate()
	if err != nil {
		return err
	}

	rows, err := universe.Load(app.Data.UniversePath, app.Data.UniverseSheet)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	data := buildMarketData(ctx, app.Data.Cache)

	ranker, err := pipeline.NewRanker(app.Model, data)
	if err != nil {
		return err
	}

	result, err := ranker.Rank(ctx, rows, start)
	if err != nil {
		return err
	}

	printResult(result)

	if err := artifacts.WriteResultCSV(app.Data.OutputCSV, result); err != nil {
		return err
	}
	log.Info().Str("path", app.Data.OutputCSV).Msg("Saved ranking CSV")

	if app.Data.ArtifactsDir != "" {
		path, err := artifacts.WriteRunJSON(app.Data.ArtifactsDir, result)
		if err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("Saved run artifact")
	}

	printDiagnostics(rows, result)
	return nil
}

// buildMarketData wires the Yahoo provider, with the Redis download cache
// when configured and reachable.
func buildMarketData(ctx context.Context, cfg config.Cache) pipeline.MarketData {
	if !cfg.Enabled {
		return providers.NewYahooMarketData()
	}

	store := cache.NewRedis(cfg.Addr, cfg.DB, cfg.TTL)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Download cache unreachable, continuing without it")
		return providers.NewYahooMarketData()
	}

	log.Info().Str("addr", cfg.Addr).Msg("Download cache enabled")
	return providers.NewYahooMarketData(providers.WithCache(store))
}

func printResult(result *pipeline.RankedResult) {
	fmt.Println("\n=== TOP FAVORABLE COUNTRIES (MODEL OUTPUT) ===")
	fmt.Println()

	if result.IsEmpty() {
		fmt.Println("No eligible countries. Check gates, FX coverage, or data availability.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tCOUNTRY\tETF\tSCORE\tTREND\tETF 12M\tFX 12M\tREAL RATE\tREGIME")
	for _, c := range result.Countries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\t%s\t%s\t%s\t%s\n",
			c.Rank, c.Country, c.ETF,
			c.Score.String(), c.TrendOK,
			c.ETFMom12m.String(), c.FXMom12m.String(),
			c.RealRate.String(), c.FXRegime)
	}
	w.Flush()
}

// printDiagnostics mirrors the run report: universe coverage, gating outcome
// and data-quality counters.
func printDiagnostics(rows []pipeline.UniverseRow, result *pipeline.RankedResult) {
	pegged := 0
	missingRates := 0
	for _, r := range rows {
		if strings.EqualFold(r.FXRegime, pipeline.RegimePegged) {
			pegged++
		}
		if !r.PolicyRate.Valid() {
			missingRates++
		}
	}

	log.Info().
		Int("universe_size", result.UniverseSize).
		Int("eligible_after_gates", result.EligibleAfterGates).
		Int("selected", len(result.Countries)).
		Int("pegged_regimes", pegged).
		Int("missing_policy_rates", missingRates).
		Msg("Run diagnostics")
}
