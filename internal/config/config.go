package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Detection parameters. The percentile threshold and density settings are
	// deliberately configuration, not constants baked into the engine.
	Components int     `mapstructure:"components" yaml:"components"`
	KMin       int     `mapstructure:"k_min" yaml:"k_min"`
	KMax       int     `mapstructure:"k_max" yaml:"k_max"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"`
	Eps        float64 `mapstructure:"eps" yaml:"eps"`
	MinPts     int     `mapstructure:"min_pts" yaml:"min_pts"`
	Percentile float64 `mapstructure:"percentile" yaml:"percentile"`

	// SAP APM integration.
	APMTokenURL           string `mapstructure:"apm_token_url" yaml:"apm_token_url"`
	APMClientID           string `mapstructure:"apm_client_id" yaml:"apm_client_id"`
	APMClientSecret       string `mapstructure:"apm_client_secret" yaml:"apm_client_secret"`
	APMAPIKey             string `mapstructure:"apm_api_key" yaml:"apm_api_key"`
	APMAlertEndpoint      string `mapstructure:"apm_alert_endpoint" yaml:"apm_alert_endpoint"`
	APMTimeseriesEndpoint string `mapstructure:"apm_timeseries_endpoint" yaml:"apm_timeseries_endpoint"`
	APMAlertType          string `mapstructure:"apm_alert_type" yaml:"apm_alert_type"`
	APMEqNumber           string `mapstructure:"apm_eq_number" yaml:"apm_eq_number"`
	APMEqSSID             string `mapstructure:"apm_eq_ssid" yaml:"apm_eq_ssid"`
	APMEqType             string `mapstructure:"apm_eq_type" yaml:"apm_eq_type"`
	APMCategoryName       string `mapstructure:"apm_category_name" yaml:"apm_category_name"`
	APMPositionID         string `mapstructure:"apm_position_id" yaml:"apm_position_id"`
	// Upload throttle in measurements per minute.
	APMUploadPerMinute int `mapstructure:"apm_upload_per_minute" yaml:"apm_upload_per_minute"`

	// Monitoring server.
	ServeHost       string `mapstructure:"serve_host" yaml:"serve_host"`
	ServePort       int    `mapstructure:"serve_port" yaml:"serve_port"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
	WatchPath       string `mapstructure:"watch_path" yaml:"watch_path"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.uscan/config.yaml, creating the directory if needed.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".uscan")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("USCAN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("components", 2)
	v.SetDefault("k_min", 2)
	v.SetDefault("k_max", 10)
	v.SetDefault("seed", 42)
	v.SetDefault("eps", 1.5)
	v.SetDefault("min_pts", 3)
	v.SetDefault("percentile", 99.5)
	v.SetDefault("apm_category_name", "M")
	v.SetDefault("apm_upload_per_minute", 4)
	v.SetDefault("serve_host", "0.0.0.0")
	v.SetDefault("serve_port", 5001)
	v.SetDefault("poll_interval_sec", 15)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".uscan")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
