package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"thesislab/pkg/core/thesis"
	"thesislab/pkg/core/utils"
)

const extractorSystemPrompt = `You are an equity research editor. Extract every checkable claim from the thesis text.

Return JSON: {"claims": [{"text": "...", "metric": "...", "stated": 0.0, "edge_tag": "none", "support": {}}]}

Rules:
- "metric" is a dotted model key (e.g. "valuation.today", "scenario.long.3yr.return_pct", "segment.<id>.revenue.y3") when the claim states a number the model can verify; otherwise leave it empty.
- "stated" is the number as written, in the model's units (percent returns as percent).
- "edge_tag" is "edge1" for claims resting on the author's own computation, "edge2" for non-consensus sourced facts, "edge3" for narrative techniques, else "none".
- Fill exactly one "support" field for any tagged claim: "computation", "citation" ({"source": "...", "link": "..."}), or "narrative".
- Do not invent numbers not present in the text.`

// ClaimExtractor turns thesis prose into structured claims via a Provider.
type ClaimExtractor struct {
	provider Provider
}

func NewClaimExtractor(p Provider) *ClaimExtractor {
	return &ClaimExtractor{provider: p}
}

type extractedClaims struct {
	Claims []thesis.Claim `json:"claims"`
}

// Extract asks the provider for structured claims and validates each one.
// Model responses with trailing commas or stray prose are repaired before
// unmarshalling; claims failing edge validation are dropped with a warning
// rather than poisoning the run.
func (e *ClaimExtractor) Extract(ctx context.Context, prose string) ([]thesis.Claim, error) {
	if prose == "" {
		return nil, fmt.Errorf("no thesis text to extract from")
	}

	raw, err := e.provider.GenerateResponse(ctx, prose, extractorSystemPrompt, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("claim extraction failed: %w", err)
	}

	var out extractedClaims
	if err := utils.RepairAndUnmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parsing extracted claims: %w", err)
	}

	kept := make([]thesis.Claim, 0, len(out.Claims))
	for _, c := range out.Claims {
		if err := c.Validate(); err != nil {
			log.Warn().Err(err).Msg("dropping extracted claim")
			continue
		}
		kept = append(kept, c)
	}
	log.Debug().Int("extracted", len(out.Claims)).Int("kept", len(kept)).Msg("claims extracted")
	return kept, nil
}
