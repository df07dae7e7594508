package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"price-dashboard/config"
	"price-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	ruleFlag    string
	logModeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "price-dashboard",
	Short: "Prescriptive pricing dashboard over synthetic engagement data",
	Long: `price-dashboard generates monthly active-user and post counts per location,
prescribes a price for each month and for a live scenario using a configurable
linear pricing rule, and serves the result as an interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if ruleFlag != "" {
			cfg.PricingRule = ruleFlag
		}
		if logModeFlag != "" {
			cfg.LogMode = logModeFlag
		}

		var err error
		logger, err = utils.NewLoggerWithMode(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ruleFlag, "rule", "", "pricing rule to apply (overrides PRICING_RULE)")
	rootCmd.PersistentFlags().StringVar(&logModeFlag, "log-mode", "", "dev or prod (overrides LOG_MODE)")

	rootCmd.AddCommand(serveCmd, reportCmd, snapshotCmd, rulesCmd, runsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
