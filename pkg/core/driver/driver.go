// Package driver implements the assumption store backing the valuation model.
// Every input driver (volumes, prices, margins, multiples) is recorded with
// provenance, and revisions are kept in an append-only log for audit.
package driver

import "time"

// =============================================================================
// PROVENANCE
// =============================================================================

// Confidence distinguishes verified data from provisional data pending
// later confirmation.
type Confidence string

const (
	ConfidenceVerified Confidence = "verified"
	// ConfidenceDeferred marks a placeholder the analyst intends to confirm
	// before publication. The literal tag is carried into reports.
	ConfidenceDeferred Confidence = "will verify later if time"
)

// Valid reports whether the tag is one of the two recognized values.
func (c Confidence) Valid() bool {
	return c == ConfidenceVerified || c == ConfidenceDeferred
}

// Citation is a single source reference for a driver value or a margin
// benchmark. Link may be a URL or a local file path.
type Citation struct {
	Source  string `json:"source" yaml:"source"`                         // e.g. "CALM 10-K FY2025", "USDA weekly retail egg report"
	Link    string `json:"link,omitempty" yaml:"link,omitempty"`         // URL or local file path
	PageRef string `json:"page_ref,omitempty" yaml:"page_ref,omitempty"` // e.g. "p.45" or "F-22"
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`   // quoted text from the source
}

// Empty reports whether the citation carries no source at all.
func (c Citation) Empty() bool {
	return c.Source == "" && c.Link == ""
}

// =============================================================================
// HORIZON
// =============================================================================

// Horizon is the time point at which a driver value applies.
type Horizon string

const (
	HorizonToday     Horizon = "today"
	HorizonThreeYear Horizon = "+3y"
)

// Valid reports whether the horizon is recognized.
func (h Horizon) Valid() bool {
	return h == HorizonToday || h == HorizonThreeYear
}

// Years returns the horizon offset in years from today.
func (h Horizon) Years() int {
	if h == HorizonThreeYear {
		return 3
	}
	return 0
}

// =============================================================================
// DRIVER
// =============================================================================

// Driver is a single model input with full provenance.
type Driver struct {
	Name       string     `json:"name" yaml:"name"` // e.g. "specialty_dozens", "conventional_price"
	Unit       string     `json:"unit" yaml:"unit"` // "%", "$/dozen", "M dozens", "x"
	Value      float64    `json:"value" yaml:"value"`
	Horizon    Horizon    `json:"horizon" yaml:"horizon"`
	Source     Citation   `json:"source" yaml:"source"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// Revision is one entry in the append-only driver log. Version is monotonic
// per (name, horizon) so concurrent human-paced edits can be rejected as
// stale instead of locked.
type Revision struct {
	ID         string    `json:"id"`
	Version    int       `json:"version"`
	Driver     Driver    `json:"driver"`
	RecordedAt time.Time `json:"recorded_at"`
}
