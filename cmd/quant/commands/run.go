package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantselect/engine/internal/brain"
	"github.com/quantselect/engine/internal/calendar"
	"github.com/quantselect/engine/internal/contracts"
	"github.com/quantselect/engine/internal/report"
	"github.com/quantselect/engine/internal/selection"
	"github.com/quantselect/engine/internal/selectionstore"
	"github.com/quantselect/engine/internal/strategyconfig"
	"github.com/quantselect/engine/pkg/config"
	"github.com/quantselect/engine/pkg/database"
	"github.com/quantselect/engine/pkg/logger"
)

var (
	runStrategyPath string
	runFrom         string
	runTo           string
	runSave         bool
	runStepMonths   int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one selection-and-backtest invocation",
	Long: `Selects a rebalance date inside [from, to], ranks the eligible
universe by Sharpe ratio, runs mean-variance optimization and
cardinality pruning, and simulates the forward daily returns.

With --step-months, [from, to] is instead swept as a sequence of
adjacent windows, each step-months long, and one selection is run per
window; windows run to completion strictly one after another.

Example:
  go run ./cmd/quant run --strategy strategy.yaml --from 2018-01-01 --to 2023-12-31
  go run ./cmd/quant run --strategy strategy.yaml --from 2018-01-01 --to 2023-12-31 --save
  go run ./cmd/quant run --strategy strategy.yaml --from 2018-01-01 --to 2023-12-31 --step-months 12`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runStrategyPath, "strategy", "", "path to strategy YAML config (required)")
	runCmd.Flags().StringVar(&runFrom, "from", "", "window start date (YYYY-MM-DD, required)")
	runCmd.Flags().StringVar(&runTo, "to", "", "window end date (YYYY-MM-DD, required)")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the resulting snapshot")
	runCmd.Flags().IntVar(&runStepMonths, "step-months", 0, "sweep [from, to] as adjacent windows this many months wide, running one selection per window (0 = single window)")

	runCmd.MarkFlagRequired("strategy")
	runCmd.MarkFlagRequired("from")
	runCmd.MarkFlagRequired("to")
}

func runRun(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Selection Engine Run ===")

	start, err := time.Parse("2006-01-02", runFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.Parse("2006-01-02", runTo)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if runStepMonths < 0 {
		return fmt.Errorf("--step-months must be non-negative, got %d", runStepMonths)
	}

	cfg, rawYAML, err := strategyconfig.Load(runStrategyPath)
	if err != nil {
		return fmt.Errorf("load strategy config: %w", err)
	}

	fmt.Printf("\nStrategy:   %s (%s)\n", cfg.Meta.StrategyID, cfg.Meta.Version)
	fmt.Printf("Window:     %s ~ %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Lookback:   %d months, min %d\n", cfg.LookbackMonths, cfg.MinMonths)
	fmt.Printf("Cardinality: top %d -> final %d\n", cfg.TopN, cfg.KFinal)
	fmt.Printf("Bounds:     [%.4f, %.4f], ridge %.4f\n\n", cfg.WMin, cfg.WMax, cfg.Ridge)

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}
	log := logger.New(appCfg)
	fmt.Printf("Database:   %s\n", maskPassword(appCfg.Database.URL))

	db, err := database.New(appCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	source := selectionstore.New(db.Pool)
	screener := selection.NewScreener(log)
	orchestrator := brain.NewOrchestrator(source, screener, log)
	repo := selection.NewRepository(db.Pool)

	windows := sweepWindows(start, end, runStepMonths)
	for i, w := range windows {
		if len(windows) > 1 {
			fmt.Printf("\n--- Window %d/%d: %s ~ %s ---\n", i+1, len(windows),
				w.start.Format("2006-01-02"), w.end.Format("2006-01-02"))
		}

		if err := runOneWindow(cmd.Context(), orchestrator, repo, cfg, rawYAML, w.start, w.end, log); err != nil {
			return err
		}
	}

	return nil
}

// window is one [start, end] range the orchestrator runs over.
type window struct {
	start time.Time
	end   time.Time
}

// sweepWindows splits [start, end] into adjacent windows stepMonths wide
// (the last one clipped at end). Each window ends on the date the next
// one starts, and both bounds are inclusive, so that boundary date
// belongs to both windows. stepMonths <= 0 yields a single window
// spanning the whole range, matching the no-sweep case.
func sweepWindows(start, end time.Time, stepMonths int) []window {
	if stepMonths <= 0 {
		return []window{{start: start, end: end}}
	}

	var windows []window
	cur := start
	for cur.Before(end) {
		next := calendar.AddMonths(cur, stepMonths)
		if next.After(end) {
			next = end
		}
		windows = append(windows, window{start: cur, end: next})
		if !next.After(cur) {
			break
		}
		cur = next
	}
	return windows
}

// runOneWindow runs the orchestrator for a single window and prints or
// persists the result. A "no result" guard is logged and treated as a
// skip, not a command failure, matching the core's data-scarcity
// semantics; every other error is fatal.
func runOneWindow(ctx context.Context, orchestrator *brain.Orchestrator, repo *selection.Repository, cfg *strategyconfig.Config, rawYAML []byte, start, end time.Time, log *logger.Logger) error {
	result, err := orchestrator.Run(ctx, *cfg, start, end)
	if err != nil {
		if errors.Is(err, contracts.ErrNoResult) {
			log.WithError(err).Warn("window produced no result, skipping")
			fmt.Printf("\n(no result: %v)\n", err)
			return nil
		}
		return fmt.Errorf("run failed: %w", err)
	}

	printRunResult(result, cfg.RiskFreeRate)

	if runSave {
		decision, err := strategyconfig.NewDecisionSnapshot(cfg, rawYAML, getGitSHA(),
			start.Format("2006-01-02")+"_"+end.Format("2006-01-02"))
		if err != nil {
			return fmt.Errorf("build decision snapshot: %w", err)
		}

		snap := selection.Snapshot{
			ConfigHash:    decision.ConfigHash,
			RebalanceDate: result.RebalanceDate,
			Symbols:       result.Symbols,
			Weights:       result.Weights,
			CreatedAt:     decision.CreatedAt,
		}
		if err := repo.SaveSnapshot(ctx, snap); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		fmt.Printf("\n✅ Snapshot saved (config_hash=%s, git=%s)\n", decision.ConfigHash[:12], decision.GitCommit)
	}

	return nil
}

func printRunResult(result *contracts.Result, riskFreeRate float64) {
	fmt.Println("\n✅ Run completed")
	fmt.Printf("Rebalance date: %s\n", result.RebalanceDate.Format("2006-01-02"))
	fmt.Printf("Portfolio size: %d symbols\n\n", len(result.Symbols))

	fmt.Println("📊 Weights")
	for _, symbol := range result.Symbols {
		fmt.Printf("  %-10s %6.3f\n", symbol, result.Weights[symbol])
	}

	summary := report.Summarize(result.DailyReturns, riskFreeRate)
	fmt.Println("\n📈 Forward performance")
	fmt.Printf("Days:          %d\n", summary.Days)
	fmt.Printf("Total return:  %s\n", formatPct(summary.TotalReturn))
	fmt.Printf("CAGR:          %s\n", formatPct(summary.CAGR))
	fmt.Printf("Volatility:    %.2f%%\n", summary.Volatility*100)
	fmt.Printf("Sharpe ratio:  %.2f\n", summary.SharpeRatio)
	fmt.Printf("Max drawdown:  %.2f%%\n", summary.MaxDrawdown*100)
}
