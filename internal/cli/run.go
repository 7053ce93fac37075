package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"thesislab/pkg/core/ingest"
	"thesislab/pkg/core/pipeline"
	"thesislab/pkg/core/report"
	"thesislab/pkg/core/store"
)

var (
	outMD     string
	outCSV    string
	noPersist bool
	useDB     bool
	timeout   time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <workbook.yaml>",
	Short: "Run the full pipeline on a research workbook",
	Long: `Run loads a YAML workbook (drivers with provenance, segment
definitions, thesis claims, report prose), freezes the drivers into a
snapshot, prices the four position cases, checks the thesis against the
model, and binds the report.

Example:
  thesislab run research/calm.yaml --md calm_report.md --csv calm_model.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&outMD, "md", "report.md", "output Markdown report path")
	runCmd.Flags().StringVar(&outCSV, "csv", "", "output model CSV path (optional)")
	runCmd.Flags().BoolVar(&noPersist, "no-persist", false, "skip saving the case bundle")
	runCmd.Flags().BoolVar(&useDB, "db", false, "persist to Postgres (DATABASE_URL) instead of the file cache")
	runCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall run timeout")
}

// pipelineConfig builds the pipeline config from defaults overlaid with
// viper (config file, THESISLAB_* env).
func pipelineConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func newRepository(ctx context.Context) (store.CaseRepository, error) {
	if !useDB {
		return store.NewCaseRepo(nil, viper.GetString("cache_dir")), nil
	}
	if err := store.InitDB(ctx); err != nil {
		return nil, err
	}
	return store.NewCaseRepo(store.GetPool(), viper.GetString("cache_dir")), nil
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	wb, err := ingest.LoadWorkbook(args[0])
	if err != nil {
		return err
	}

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	orch := pipeline.New(cfg)
	if !noPersist {
		repo, err := newRepository(ctx)
		if err != nil {
			return err
		}
		orch.SetRepository(repo)
	}

	res, err := orch.Run(ctx, wb)
	if err != nil {
		return err
	}

	printResult(res)

	if outMD != "" {
		md, err := report.RenderMarkdown(res.Document)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outMD, []byte(md), 0o644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written: %s\n", outMD)
	}

	if outCSV != "" {
		f, err := os.Create(outCSV)
		if err != nil {
			return fmt.Errorf("creating model export: %w", err)
		}
		defer f.Close()
		if err := report.ExportModel(f, res.Series, res.Cases); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Model exported: %s\n", outCSV)
	}

	return nil
}

func printResult(res *pipeline.Result) {
	fmt.Printf("%s  snapshot %s\n\n", res.Ticker, res.SnapshotID)
	fmt.Printf("Enterprise value: %.1f today, %.1f at +3y (%s)\n\n",
		res.Snapshots.Today, res.Snapshots.Year3, res.Snapshots.Method)

	for _, c := range res.Cases {
		fmt.Printf("  %-12s %+8.1f%%  (%.1f -> %.1f)\n",
			c.Key(), c.TargetReturnPct, c.ValuationToday, c.ValuationHorizon)
	}
	fmt.Println()

	if len(res.Violations) > 0 {
		fmt.Printf("Thesis/model disagreements (%d):\n", len(res.Violations))
		for _, v := range res.Violations {
			fmt.Printf("  - %s\n", v)
		}
		fmt.Println()
	}

	if len(res.Deferred) > 0 {
		fmt.Printf("Unverified drivers (%d): %v\n", len(res.Deferred), res.Deferred)
	}
}
