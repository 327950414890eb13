package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/apm"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <long-format.csv>",
	Short: "Stream a long-format dataset to SAP APM as timeseries measurements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("config with APM credentials is required; see 'uscan config'")
		}
		t, err := dataset.LoadCSV(args[0])
		if err != nil {
			return err
		}
		client, err := apm.NewClient(cmd.Context(), apmConfig(), logger)
		if err != nil {
			return err
		}

		// One measurement per row; the feature columns double as the
		// characteristic ids when no explicit mapping is configured.
		measurements := make([]apm.Measurement, 0, len(t.Rows))
		now := time.Now()
		for i, row := range t.Rows {
			m := apm.Measurement{Time: now.Add(time.Duration(i) * time.Second), Values: map[string]float64{}}
			for _, col := range dataset.FeatureColumns {
				if v := row.Feature(col); !v.Missing {
					m.Values[col] = v.Num
				}
			}
			if len(m.Values) > 0 {
				measurements = append(measurements, m)
			}
		}
		sent, failed, err := client.UploadMeasurements(cmd.Context(), measurements)
		if err != nil {
			return err
		}
		logger.Info("upload finished", zap.Int("sent", sent), zap.Int("failed", failed))
		fmt.Printf("✓ Sent %d measurements (%d failed)\n", sent, failed)
		return nil
	},
}

func apmConfig() apm.Config {
	return apm.Config{
		TokenURL:           cfg.APMTokenURL,
		ClientID:           cfg.APMClientID,
		ClientSecret:       cfg.APMClientSecret,
		APIKey:             cfg.APMAPIKey,
		AlertEndpoint:      cfg.APMAlertEndpoint,
		TimeseriesEndpoint: cfg.APMTimeseriesEndpoint,
		AlertType:          cfg.APMAlertType,
		EqNumber:           cfg.APMEqNumber,
		EqSSID:             cfg.APMEqSSID,
		EqType:             cfg.APMEqType,
		CategoryName:       cfg.APMCategoryName,
		PositionID:         cfg.APMPositionID,
		UploadPerMinute:    cfg.APMUploadPerMinute,
	}
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
