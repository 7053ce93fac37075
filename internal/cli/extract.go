package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"thesislab/pkg/core/llm"
)

var extractModel string

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <thesis.md>",
	Short: "Extract checkable claims from thesis prose via an LLM",
	Long: `Extract reads a prose thesis and asks an LLM to pull out every
checkable claim as structured YAML, ready to paste into a workbook's
claims block. Requires GEMINI_API_KEY.

Extracted claims are drafts: each still needs its metric key confirmed
and its edge support filled in by hand.

Example:
  thesislab extract research/calm_thesis.md`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractModel, "model", "", "Gemini model override")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	prose, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading thesis: %w", err)
	}

	extractor := llm.NewClaimExtractor(&llm.GeminiProvider{Model: extractModel})
	claims, err := extractor.Extract(ctx, string(prose))
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(map[string]interface{}{"claims": claims})
	if err != nil {
		return fmt.Errorf("rendering claims: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
