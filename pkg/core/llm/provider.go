// Package llm provides optional model assistance for drafting: extracting
// checkable claims from thesis prose. Model output never feeds the
// valuation directly; extracted claims go through the same validation and
// consistency checks as hand-written ones.
package llm

import (
	"context"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
