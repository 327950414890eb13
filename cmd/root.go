package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/fzorr369/KI-Use-Case-Demo/internal/config"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// Process-wide logger, replaced with a production logger in serve mode.
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "uscan",
	Short: "uscan: flag anomalous ultrasonic inspection indications",
	Long: `uscan ingests long-format ultrasonic inspection tables, reduces each
indication to a numeric feature set and flags statistically anomalous rows for
manual review using two independent clustering views fused by a percentile
rule.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initAll)
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.uscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func initAll() {
	var err error
	logger, err = logging.New(false, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to build logger: %v\n", err)
		logger = zap.NewNop()
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		logger.Warn("failed to load config", zap.Error(err))
		return
	}
	cfg = c
}
