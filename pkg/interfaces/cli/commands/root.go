// Package commands wires the planner into a cobra CLI.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "deliveryplan",
	Short: "Single-day grocery delivery loading planner",
	Long: `deliveryplan plans one delivery day for a grocery depot.

Phase 1 ranks pending orders and their items with configurable
lexicographic schemes. Phase 2 routes each order by cold fraction into
bucket A (cold-mandatory), B (flexible), or C (dry-only) and places it
best-fit onto reefer or dry trucks, cooler bookkeeping included. The run
ends with per-truck and fleet KPI reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local defaults; absence is fine.
		_ = godotenv.Load()

		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "planning config YAML (defaults apply when omitted)")
}

// Execute runs the CLI and returns the terminal error, if any
func Execute() error {
	return rootCmd.Execute()
}
