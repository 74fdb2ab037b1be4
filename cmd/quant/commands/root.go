package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	envName string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "quant",
	Short: "Monthly universe selection and backtest engine",
	Long: `quant selects a monthly equity portfolio from a Sharpe-ranked
universe, runs it through mean-variance optimization and cardinality
pruning, and simulates the forward daily returns.

Usage:
  go run ./cmd/quant [command]

Examples:
  go run ./cmd/quant run --strategy strategy.yaml --from 2018-01-01 --to 2023-12-31
  go run ./cmd/quant test-db
  go run ./cmd/quant snapshot show --strategy strategy.yaml --date 2023-06-30`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// config.Load reads ENV; an explicit --env takes precedence.
		if cmd.Flags().Changed("env") {
			os.Setenv("ENV", envName)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main. It only needs to happen
// once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (accepted, but no command reads it)")
}
