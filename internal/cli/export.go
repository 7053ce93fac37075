package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"thesislab/pkg/core/ingest"
	"thesislab/pkg/core/pipeline"
	"thesislab/pkg/core/report"
)

var exportOut string

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <workbook.yaml>",
	Short: "Export the segment model and scenario cases as CSV",
	Long: `Export runs the model and writes the year-by-year segment rows and
the four scenario cases to CSV for spreadsheet review.

Example:
  thesislab export research/calm.yaml -o calm_model.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "model.csv", "output CSV path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	wb, err := ingest.LoadWorkbook(args[0])
	if err != nil {
		return err
	}

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	res, err := pipeline.New(cfg).Run(ctx, wb)
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	defer f.Close()

	if err := report.ExportModel(f, res.Series, res.Cases); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Model exported: %s\n", exportOut)
	return nil
}
