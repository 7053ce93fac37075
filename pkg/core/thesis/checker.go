package thesis

import (
	"fmt"
	"math"
	"sort"

	"thesislab/pkg/core/consolidate"
	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/segment"
)

// DefaultTolerance is the relative tolerance for a claim's stated number
// against the model output.
const DefaultTolerance = 0.01

// =============================================================================
// METRIC INDEX
// =============================================================================

// MetricIndex maps metric keys to model outputs. Keys follow a dotted
// convention, e.g. "company.revenue.y0", "valuation.today",
// "scenario.long.3yr.return_pct", "segment.specialty.operating_income.y3".
type MetricIndex struct {
	values map[string]float64
}

// NewMetricIndex creates an empty index.
func NewMetricIndex() *MetricIndex {
	return &MetricIndex{values: make(map[string]float64)}
}

// Set records a metric value.
func (m *MetricIndex) Set(key string, v float64) { m.values[key] = v }

// Get looks up a metric value.
func (m *MetricIndex) Get(key string) (float64, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns all metric keys, sorted.
func (m *MetricIndex) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildIndex publishes the consolidation and scenario outputs under their
// metric keys so claims can reference them.
func BuildIndex(
	company consolidate.Company,
	snaps consolidate.Snapshots,
	cases []scenario.Case,
	series []segment.Series,
) *MetricIndex {
	idx := NewMetricIndex()

	for _, y := range company.Years {
		idx.Set(fmt.Sprintf("company.revenue.y%d", y.Year), y.Revenue)
		idx.Set(fmt.Sprintf("company.ebit.y%d", y.Year), y.EBIT)
		idx.Set(fmt.Sprintf("company.net_income.y%d", y.Year), y.NetIncome)
	}

	idx.Set("valuation.today", snaps.Today)
	idx.Set("valuation.year3", snaps.Year3)

	for _, c := range cases {
		idx.Set(fmt.Sprintf("scenario.%s.return_pct", c.Key()), c.TargetReturnPct)
		idx.Set(fmt.Sprintf("scenario.%s.valuation_horizon", c.Key()), c.ValuationHorizon)
	}

	for _, s := range series {
		for _, y := range s.Years {
			idx.Set(fmt.Sprintf("segment.%s.revenue.y%d", s.SegmentID, y.Year), y.Revenue)
			idx.Set(fmt.Sprintf("segment.%s.operating_income.y%d", s.SegmentID, y.Year), y.OperatingIncome)
			idx.Set(fmt.Sprintf("segment.%s.margin.y%d", s.SegmentID, y.Year), y.TargetMargin)
		}
	}
	return idx
}

// =============================================================================
// CONSISTENCY CHECK
// =============================================================================

// ConsistencyViolation records one model/thesis mismatch. Violations are
// collected, never auto-corrected: the human decides which side is wrong.
type ConsistencyViolation struct {
	Claim    Claim   `json:"claim"`
	Expected float64 `json:"expected"` // model output
	Actual   float64 `json:"actual"`   // number stated in the thesis
	Missing  bool    `json:"missing"`  // metric key not found in the index
}

func (v ConsistencyViolation) String() string {
	if v.Missing {
		return fmt.Sprintf("claim %q references unknown metric '%s'", truncate(v.Claim.Text), v.Claim.Metric)
	}
	return fmt.Sprintf("claim %q states %.4f but the model computes %.4f for '%s'",
		truncate(v.Claim.Text), v.Actual, v.Expected, v.Claim.Metric)
}

// Checker verifies metric-referencing claims against the index.
type Checker struct {
	Tolerance float64 // relative; zero means DefaultTolerance
}

// Check returns the full list of violations in one pass rather than
// failing fast, so every inconsistency surfaces for human review at once.
func (ch Checker) Check(claims []Claim, idx *MetricIndex) []ConsistencyViolation {
	tol := ch.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	var violations []ConsistencyViolation
	for _, c := range claims {
		if c.Metric == "" {
			continue // pure narrative, nothing to check numerically
		}
		model, ok := idx.Get(c.Metric)
		if !ok {
			violations = append(violations, ConsistencyViolation{Claim: c, Actual: c.Stated, Missing: true})
			continue
		}

		denom := math.Abs(model)
		if denom == 0 {
			if c.Stated != 0 {
				violations = append(violations, ConsistencyViolation{Claim: c, Expected: model, Actual: c.Stated})
			}
			continue
		}
		if math.Abs(c.Stated-model)/denom > tol {
			violations = append(violations, ConsistencyViolation{Claim: c, Expected: model, Actual: c.Stated})
		}
	}
	return violations
}
