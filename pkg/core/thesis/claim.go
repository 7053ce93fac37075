// Package thesis cross-validates the written thesis against model outputs.
// Claims referencing a metric are checked numerically; claims invoking an
// edge must be reproducible from the support they cite.
package thesis

import (
	"fmt"

	"thesislab/pkg/core/driver"
)

// EdgeTag labels the differentiator a claim invokes: analytical (edge1),
// informational (edge2), or psychological-storytelling (edge3).
type EdgeTag string

const (
	EdgeNone          EdgeTag = "none"
	EdgeAnalytical    EdgeTag = "edge1"
	EdgeInformational EdgeTag = "edge2"
	EdgeStorytelling  EdgeTag = "edge3"
)

// Valid reports whether the tag is recognized.
func (e EdgeTag) Valid() bool {
	switch e {
	case EdgeNone, EdgeAnalytical, EdgeInformational, EdgeStorytelling:
		return true
	}
	return false
}

// Support backs an edge-tagged claim. Exactly one field must be set, and it
// must match the tag: a named computation for edge1, a cited source for
// edge2, a flagged narrative technique for edge3.
type Support struct {
	Computation string          `json:"computation,omitempty" yaml:"computation,omitempty"` // e.g. "segment.specialty elasticity ranking"
	Citation    driver.Citation `json:"citation,omitempty" yaml:"citation,omitempty"`
	Narrative   string          `json:"narrative,omitempty" yaml:"narrative,omitempty"` // e.g. "contrast framing vs consensus"
}

func (s Support) count() int {
	n := 0
	if s.Computation != "" {
		n++
	}
	if !s.Citation.Empty() {
		n++
	}
	if s.Narrative != "" {
		n++
	}
	return n
}

// Claim is one checkable statement from the written thesis.
type Claim struct {
	Text    string  `json:"text" yaml:"text"`
	Metric  string  `json:"metric,omitempty" yaml:"metric,omitempty"` // metric key, empty for pure narrative
	Stated  float64 `json:"stated,omitempty" yaml:"stated,omitempty"` // the number the thesis states
	EdgeTag EdgeTag `json:"edge_tag" yaml:"edge_tag"`
	Support Support `json:"support,omitempty" yaml:"support,omitempty"`
}

// Validate enforces the edge invariant: a non-none tag carries exactly one
// support, of the kind the tag names.
func (c Claim) Validate() error {
	if c.Text == "" {
		return fmt.Errorf("claim text cannot be empty")
	}
	if !c.EdgeTag.Valid() {
		return fmt.Errorf("claim %q: unknown edge tag '%s'", truncate(c.Text), c.EdgeTag)
	}
	if c.EdgeTag == EdgeNone {
		return nil
	}
	if n := c.Support.count(); n != 1 {
		return fmt.Errorf("claim %q: edge-tagged claim must carry exactly one support, found %d", truncate(c.Text), n)
	}
	switch c.EdgeTag {
	case EdgeAnalytical:
		if c.Support.Computation == "" {
			return fmt.Errorf("claim %q: edge1 requires a named analytical computation", truncate(c.Text))
		}
	case EdgeInformational:
		if c.Support.Citation.Empty() {
			return fmt.Errorf("claim %q: edge2 requires a cited external source", truncate(c.Text))
		}
	case EdgeStorytelling:
		if c.Support.Narrative == "" {
			return fmt.Errorf("claim %q: edge3 requires a flagged narrative technique", truncate(c.Text))
		}
	}
	return nil
}

// VerifyEdges validates every claim and returns all failures in one pass.
func VerifyEdges(claims []Claim) []error {
	var errs []error
	for _, c := range claims {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
