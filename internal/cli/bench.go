package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"thesislab/pkg/core/ingest"
)

var benchSource string

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench <comps.html>",
	Short: "Parse comparable-company benchmarks from a saved HTML table",
	Long: `Bench reads a locally saved HTML page (a comps table from a filing
or a data site), extracts per-company metrics from its first table, and
prints them as YAML with citations back to the source, ready to inform a
segment's long-run margin.

Example:
  thesislab bench research/specialty_comps.html --source "Vital Farms 10-K FY2024"`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().StringVar(&benchSource, "source", "", "citation source for the saved page (defaults to the file name)")
}

func runBench(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening comps page: %w", err)
	}
	defer f.Close()

	source := benchSource
	if source == "" {
		source = args[0]
	}

	benchmarks, err := ingest.ParseBenchmarks(f, source)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(map[string]interface{}{"benchmarks": benchmarks})
	if err != nil {
		return fmt.Errorf("rendering benchmarks: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
