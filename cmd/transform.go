package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/transform"
)

var transformOutput string

var transformCmd = &cobra.Command{
	Use:   "transform <wide-report.csv>",
	Short: "Reshape a wide inspection-report CSV into the long format",
	Long: `transform converts the wide export of the report converter (one column
group per indication) into the long format the detect command ingests: one row
per indication with unit-tagged value strings.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if transformOutput == "" {
			return fmt.Errorf("--output is required")
		}
		n, err := transform.File(args[0], transformOutput)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d indication rows to %s\n", n, transformOutput)
		return nil
	},
}

func init() {
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "long-format CSV output path")
	rootCmd.AddCommand(transformCmd)
}
