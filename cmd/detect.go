package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/anomaly"
	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

var (
	detOutputPath string
	detSummary    bool
	detComponents int
	detKMin       int
	detKMax       int
	detSeed       int64
	detEps        float64
	detMinPts     int
	detPercentile float64
)

var detectCmd = &cobra.Command{
	Use:   "detect <long-format.csv>",
	Short: "Run anomaly detection over a long-format indication table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := dataset.LoadCSV(args[0])
		if err != nil {
			return err
		}
		for _, f := range t.Findings {
			logger.Warn("value degraded to missing", zap.String("column", f.Column), zap.String("raw", f.Raw))
		}
		params := detectionParams(cmd)
		res, err := anomaly.Detect(t, params)
		if err != nil {
			return err
		}
		logger.Info("detection complete",
			zap.String("run_id", res.RunID),
			zap.Int("rows", res.Rows),
			zap.Int("warnings", len(res.Warnings)),
			zap.Int("partition_k", res.Partition.K),
			zap.Int("density_noise", res.Density.NoiseCount),
			zap.Float64("threshold", res.Threshold))
		for _, w := range res.DataWarnings {
			logger.Warn("data quality", zap.String("finding", w))
		}

		if detOutputPath != "" {
			f, err := os.Create(detOutputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			if err := res.WriteWarningsCSV(f); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d warnings to %s\n", len(res.Warnings), detOutputPath)
		} else if !detSummary {
			if err := res.WriteWarningsCSV(os.Stdout); err != nil {
				return err
			}
		}
		if detSummary {
			fmt.Print(res.Markdown())
		}
		return nil
	},
}

// detectionParams merges config-file defaults with explicit flag overrides.
func detectionParams(cmd *cobra.Command) anomaly.Params {
	params := anomaly.DefaultParams()
	if cfg != nil {
		params = anomaly.Params{
			Components: cfg.Components,
			KMin:       cfg.KMin,
			KMax:       cfg.KMax,
			Seed:       cfg.Seed,
			Eps:        cfg.Eps,
			MinPts:     cfg.MinPts,
			Percentile: cfg.Percentile,
		}
	}
	f := cmd.Flags()
	if f.Changed("components") {
		params.Components = detComponents
	}
	if f.Changed("k-min") {
		params.KMin = detKMin
	}
	if f.Changed("k-max") {
		params.KMax = detKMax
	}
	if f.Changed("seed") {
		params.Seed = detSeed
	}
	if f.Changed("eps") {
		params.Eps = detEps
	}
	if f.Changed("min-pts") {
		params.MinPts = detMinPts
	}
	if f.Changed("percentile") {
		params.Percentile = detPercentile
	}
	return params
}

func addDetectionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&detComponents, "components", 2, "principal components to retain")
	cmd.Flags().IntVar(&detKMin, "k-min", 2, "smallest candidate cluster count")
	cmd.Flags().IntVar(&detKMax, "k-max", 10, "largest candidate cluster count")
	cmd.Flags().Int64Var(&detSeed, "seed", 42, "seed for centroid initialization")
	cmd.Flags().Float64Var(&detEps, "eps", 1.5, "density neighborhood radius (standardized space)")
	cmd.Flags().IntVar(&detMinPts, "min-pts", 3, "minimum neighborhood population for a core point")
	cmd.Flags().Float64Var(&detPercentile, "percentile", 99.5, "centroid distance percentile for the outlier criterion")
}

func init() {
	detectCmd.Flags().StringVarP(&detOutputPath, "output", "o", "", "write the warning table to this CSV path (default stdout)")
	detectCmd.Flags().BoolVar(&detSummary, "summary", false, "print a run summary instead of / next to the CSV")
	addDetectionFlags(detectCmd)
	rootCmd.AddCommand(detectCmd)
}
