package thesis

import (
	"testing"

	"thesislab/pkg/core/consolidate"
	"thesislab/pkg/core/driver"
	"thesislab/pkg/core/scenario"
)

func TestChecker_ToleranceBoundary(t *testing.T) {
	idx := NewMetricIndex()
	idx.Set("valuation.today", 10.05)

	claim := Claim{
		Text:    "current valuation is $10.00",
		Metric:  "valuation.today",
		Stated:  10.00,
		EdgeTag: EdgeNone,
	}

	// 10.00 vs 10.05 at 1% relative tolerance: no violation.
	if v := (Checker{Tolerance: 0.01}).Check([]Claim{claim}, idx); len(v) != 0 {
		t.Errorf("expected no violation at 0.5%% drift, got %v", v)
	}

	// 10.00 vs 10.20: one violation.
	idx.Set("valuation.today", 10.20)
	violations := Checker{Tolerance: 0.01}.Check([]Claim{claim}, idx)
	if len(violations) != 1 {
		t.Fatalf("expected exactly one violation, got %d", len(violations))
	}
	if violations[0].Expected != 10.20 || violations[0].Actual != 10.00 {
		t.Errorf("violation detail wrong: %+v", violations[0])
	}
}

func TestChecker_CollectsAllViolations(t *testing.T) {
	idx := NewMetricIndex()
	idx.Set("company.revenue.y0", 1400)
	idx.Set("company.ebit.y0", 140)

	claims := []Claim{
		{Text: "revenue is $2B", Metric: "company.revenue.y0", Stated: 2000, EdgeTag: EdgeNone},
		{Text: "EBIT is $300M", Metric: "company.ebit.y0", Stated: 300, EdgeTag: EdgeNone},
		{Text: "margins inflect next year", EdgeTag: EdgeNone}, // narrative only
		{Text: "FCF is $90M", Metric: "company.fcf.y0", Stated: 90, EdgeTag: EdgeNone},
	}

	violations := Checker{}.Check(claims, idx)
	if len(violations) != 3 {
		t.Fatalf("expected 3 violations collected in one pass, got %d: %v", len(violations), violations)
	}

	var missing int
	for _, v := range violations {
		if v.Missing {
			missing++
		}
	}
	if missing != 1 {
		t.Errorf("expected one unknown-metric violation, got %d", missing)
	}
}

func TestVerifyEdges(t *testing.T) {
	cases := []struct {
		name    string
		claim   Claim
		wantErr bool
	}{
		{
			name: "edge1 with named computation",
			claim: Claim{
				Text:    "specialty price is the first principal driver",
				EdgeTag: EdgeAnalytical,
				Support: Support{Computation: "segment.specialty driver elasticity ranking"},
			},
		},
		{
			name: "edge2 with citation",
			claim: Claim{
				Text:    "pasture-raised shelf prices held through the cycle",
				EdgeTag: EdgeInformational,
				Support: Support{Citation: driver.Citation{Source: "USDA weekly retail egg report"}},
			},
		},
		{
			name: "edge3 with narrative flag",
			claim: Claim{
				Text:    "the market still prices this as a commodity producer",
				EdgeTag: EdgeStorytelling,
				Support: Support{Narrative: "reframing against consensus category"},
			},
		},
		{
			name:    "edge1 without support",
			claim:   Claim{Text: "we model it better", EdgeTag: EdgeAnalytical},
			wantErr: true,
		},
		{
			name: "edge2 with wrong support kind",
			claim: Claim{
				Text:    "channel checks confirm demand",
				EdgeTag: EdgeInformational,
				Support: Support{Computation: "not a citation"},
			},
			wantErr: true,
		},
		{
			name: "two supports on one claim",
			claim: Claim{
				Text:    "over-supported claim",
				EdgeTag: EdgeAnalytical,
				Support: Support{Computation: "calc", Narrative: "story"},
			},
			wantErr: true,
		},
		{
			name:  "untagged claim needs nothing",
			claim: Claim{Text: "plain statement", EdgeTag: EdgeNone},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := VerifyEdges([]Claim{tc.claim})
			if tc.wantErr && len(errs) == 0 {
				t.Error("expected a validation error")
			}
			if !tc.wantErr && len(errs) > 0 {
				t.Errorf("unexpected errors: %v", errs)
			}
		})
	}
}

func TestBuildIndex(t *testing.T) {
	company := consolidate.Company{
		Tilt: "base",
		Years: []consolidate.Year{
			{Year: 0, Revenue: 1400, EBIT: 140, NetIncome: 110.6},
			{Year: 3, Revenue: 1900, EBIT: 230, NetIncome: 181.7},
		},
	}
	snaps := consolidate.Snapshots{Method: "dcf", Today: 1800, Year3: 2600}
	cases := []scenario.Case{
		{Direction: scenario.Long, Horizon: scenario.ThreeYear, TargetReturnPct: 44.4, ValuationHorizon: 2600},
	}

	idx := BuildIndex(company, snaps, cases, nil)

	checks := map[string]float64{
		"company.revenue.y0":           1400,
		"company.ebit.y3":              230,
		"valuation.today":              1800,
		"valuation.year3":              2600,
		"scenario.long.3yr.return_pct": 44.4,
	}
	for key, want := range checks {
		got, ok := idx.Get(key)
		if !ok {
			t.Errorf("metric %s missing from index", key)
			continue
		}
		if got != want {
			t.Errorf("metric %s: got %v want %v", key, got, want)
		}
	}
}
