package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantselect/engine/internal/selection"
	"github.com/quantselect/engine/internal/strategyconfig"
	"github.com/quantselect/engine/pkg/config"
	"github.com/quantselect/engine/pkg/database"
)

var (
	snapshotStrategyPath string
	snapshotDate         string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect persisted selection snapshots",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a previously saved selection snapshot",
	Long: `Looks up the snapshot saved by "run --save" for the given strategy
config and rebalance date, identified by the config's content hash.

Example:
  go run ./cmd/quant snapshot show --strategy strategy.yaml --date 2023-06-30`,
	RunE: runSnapshotShow,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)

	snapshotShowCmd.Flags().StringVar(&snapshotStrategyPath, "strategy", "", "path to strategy YAML config (required)")
	snapshotShowCmd.Flags().StringVar(&snapshotDate, "date", "", "rebalance date to look up (YYYY-MM-DD, required)")

	snapshotShowCmd.MarkFlagRequired("strategy")
	snapshotShowCmd.MarkFlagRequired("date")
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	rebalanceDate, err := time.Parse("2006-01-02", snapshotDate)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	cfg, _, err := strategyconfig.Load(snapshotStrategyPath)
	if err != nil {
		return fmt.Errorf("load strategy config: %w", err)
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash config: %w", err)
	}

	appCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}

	db, err := database.New(appCfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := selection.NewRepository(db.Pool)
	snap, err := repo.GetSnapshot(cmd.Context(), hash, rebalanceDate)
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}

	fmt.Printf("Config:         %s (hash=%s)\n", cfg.Meta.StrategyID, snap.ConfigHash[:12])
	fmt.Printf("Rebalance date: %s\n", snap.RebalanceDate.Format("2006-01-02"))
	fmt.Printf("Saved at:       %s\n\n", snap.CreatedAt.Format(time.RFC3339))

	fmt.Println("📊 Weights")
	for _, symbol := range snap.Symbols {
		fmt.Printf("  %-10s %6.3f\n", symbol, snap.Weights[symbol])
	}

	return nil
}
