package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/fzorr369/KI-Use-Case-Demo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set uscan configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("components: %d\n", cfg.Components)
		fmt.Printf("k_min: %d\n", cfg.KMin)
		fmt.Printf("k_max: %d\n", cfg.KMax)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("eps: %g\n", cfg.Eps)
		fmt.Printf("min_pts: %d\n", cfg.MinPts)
		fmt.Printf("percentile: %g\n", cfg.Percentile)
		fmt.Printf("apm_token_url: %s\n", cfg.APMTokenURL)
		fmt.Printf("apm_client_id: %s\n", mask(cfg.APMClientID))
		fmt.Printf("apm_client_secret: %s\n", mask(cfg.APMClientSecret))
		fmt.Printf("apm_api_key: %s\n", mask(cfg.APMAPIKey))
		fmt.Printf("apm_alert_endpoint: %s\n", cfg.APMAlertEndpoint)
		fmt.Printf("apm_timeseries_endpoint: %s\n", cfg.APMTimeseriesEndpoint)
		fmt.Printf("apm_alert_type: %s\n", cfg.APMAlertType)
		fmt.Printf("apm_eq_number: %s\n", cfg.APMEqNumber)
		fmt.Printf("apm_eq_ssid: %s\n", cfg.APMEqSSID)
		fmt.Printf("apm_eq_type: %s\n", cfg.APMEqType)
		fmt.Printf("apm_category_name: %s\n", cfg.APMCategoryName)
		fmt.Printf("apm_position_id: %s\n", cfg.APMPositionID)
		fmt.Printf("apm_upload_per_minute: %d\n", cfg.APMUploadPerMinute)
		fmt.Printf("serve_host: %s\n", cfg.ServeHost)
		fmt.Printf("serve_port: %d\n", cfg.ServePort)
		fmt.Printf("poll_interval_sec: %d\n", cfg.PollIntervalSec)
		if cfg.WatchPath != "" {
			fmt.Printf("watch_path: %s\n", cfg.WatchPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "components":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid components: %s", val)
			}
			cfg.Components = n
		case "k_min":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid k_min: %s", val)
			}
			cfg.KMin = n
		case "k_max":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid k_max: %s", val)
			}
			cfg.KMax = n
		case "seed":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid seed: %s", val)
			}
			cfg.Seed = n
		case "eps":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid eps: %s", val)
			}
			cfg.Eps = f
		case "min_pts":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid min_pts: %s", val)
			}
			cfg.MinPts = n
		case "percentile":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid percentile: %s", val)
			}
			cfg.Percentile = f
		case "apm_token_url":
			cfg.APMTokenURL = val
		case "apm_client_id":
			cfg.APMClientID = val
		case "apm_client_secret":
			cfg.APMClientSecret = val
		case "apm_api_key":
			cfg.APMAPIKey = val
		case "apm_alert_endpoint":
			cfg.APMAlertEndpoint = val
		case "apm_timeseries_endpoint":
			cfg.APMTimeseriesEndpoint = val
		case "apm_alert_type":
			cfg.APMAlertType = val
		case "apm_eq_number":
			cfg.APMEqNumber = val
		case "apm_eq_ssid":
			cfg.APMEqSSID = val
		case "apm_eq_type":
			cfg.APMEqType = val
		case "apm_position_id":
			cfg.APMPositionID = val
		case "apm_category_name":
			cfg.APMCategoryName = val
		case "apm_upload_per_minute":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid apm_upload_per_minute: %s", val)
			}
			cfg.APMUploadPerMinute = n
		case "serve_host":
			cfg.ServeHost = val
		case "serve_port":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid serve_port: %s", val)
			}
			cfg.ServePort = n
		case "poll_interval_sec":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid poll_interval_sec: %s", val)
			}
			cfg.PollIntervalSec = n
		case "watch_path":
			cfg.WatchPath = val
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s\n", key)
		return nil
	},
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
