package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/apm"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/logging"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/monitor"
)

var (
	serveWatch    string
	serveNoAlerts bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the monitoring server with a background detection loop",
	Long: `serve hosts health and metrics endpoints plus an on-demand detection
endpoint, and periodically re-runs detection over a watched long-format
dataset. When a cycle flags indications and APM is configured, an alert is
raised against the technical object.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration is required for serve mode")
		}
		// serve mode logs JSON like any other service
		prod, err := logging.New(true, debug)
		if err != nil {
			return err
		}
		logger = prod

		params := detectionParams(cmd)
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var alerter monitor.Alerter
		if !serveNoAlerts && cfg.APMTokenURL != "" {
			client, err := apm.NewClient(ctx, apmConfig(), logger)
			if err != nil {
				return err
			}
			alerter = client
		} else {
			logger.Info("alerting disabled")
		}

		watch := serveWatch
		if watch == "" {
			watch = cfg.WatchPath
		}
		var loop *monitor.Loop
		if watch != "" {
			loop = monitor.NewLoop(watch, time.Duration(cfg.PollIntervalSec)*time.Second, params, alerter, logger)
		}
		server, err := monitor.NewServer(cfg.ServeHost, cfg.ServePort, params, logger, loop)
		if err != nil {
			return err
		}
		if loop != nil {
			go loop.Run(ctx)
		}
		if err := server.Start(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		logger.Info("server stopped", zap.Error(context.Cause(ctx)))
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "long-format CSV to re-run detection over (overrides config watch_path)")
	serveCmd.Flags().BoolVar(&serveNoAlerts, "no-alerts", false, "never create APM alerts, even if configured")
	addDetectionFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}
