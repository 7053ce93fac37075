package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"thesislab/pkg/core/ingest"
	"thesislab/pkg/core/pipeline"
	"thesislab/pkg/core/thesis"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <workbook.yaml>",
	Short: "Check thesis claims against the model without writing a report",
	Long: `Check runs the model and verifies every numeric claim and every
edge-tagged claim in the workbook. Nothing is persisted and no report is
written; the exit code is non-zero when the thesis disagrees with the
model or an edge claim lacks its required support.

Example:
  thesislab check research/calm.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	edgeErrs := thesis.VerifyEdges(wb.Claims)
	for _, e := range edgeErrs {
		fmt.Fprintf(os.Stderr, "edge: %v\n", e)
	}
	for _, v := range res.Violations {
		fmt.Fprintf(os.Stderr, "model: %s\n", v)
	}

	if len(edgeErrs) > 0 || len(res.Violations) > 0 {
		return fmt.Errorf("%d edge failure(s), %d model disagreement(s)",
			len(edgeErrs), len(res.Violations))
	}

	fmt.Printf("%d claims consistent with the model\n", len(wb.Claims))
	return nil
}
