package scenario

import (
	"errors"
	"testing"

	"thesislab/pkg/core/consolidate"
)

func workingInputs() Inputs {
	return Inputs{
		SnapshotID: "snap-1",
		Base:       consolidate.Snapshots{Method: "dcf", Today: 100, Year3: 115},
		Bull:       consolidate.Snapshots{Method: "dcf", Today: 112, Year3: 150},
		Bear:       consolidate.Snapshots{Method: "dcf", Today: 90, Year3: 70},
	}
}

func TestRun_FourCases(t *testing.T) {
	cases, err := Run(workingInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cases) != 4 {
		t.Fatalf("expected 4 cases, got %d", len(cases))
	}

	byKey := make(map[string]Case)
	for _, c := range cases {
		byKey[c.Key()] = c
	}

	// Long cases positive, short cases negative, none zero.
	for key, c := range byKey {
		if c.TargetReturnPct == 0 {
			t.Errorf("%s: neutral return leaked through", key)
		}
		if c.Direction == Long && c.TargetReturnPct < 0 {
			t.Errorf("%s: long case with negative return %v", key, c.TargetReturnPct)
		}
		if c.Direction == Short && c.TargetReturnPct > 0 {
			t.Errorf("%s: short case with positive return %v", key, c.TargetReturnPct)
		}
		if c.SnapshotID != "snap-1" {
			t.Errorf("%s: snapshot id not carried", key)
		}
	}

	if got := byKey["long.3yr"].TargetReturnPct; got != 50 {
		t.Errorf("long/3yr return: got %v want 50", got)
	}
	if got := byKey["short.6mo"].TargetReturnPct; got != -10 {
		t.Errorf("short/6mo return: got %v want -10", got)
	}
}

func TestRun_NeutralOutcomeRejected(t *testing.T) {
	in := workingInputs()
	in.Bull.Today = in.Base.Today // long/6mo computes exactly zero

	_, err := Run(in)
	var neutral *NeutralOutcomeError
	if !errors.As(err, &neutral) {
		t.Fatalf("expected NeutralOutcomeError, got %v", err)
	}
	if neutral.Direction != Long || neutral.Horizon != SixMonth {
		t.Errorf("wrong case flagged: %+v", neutral)
	}
}

func TestRun_DirectionConflictRejected(t *testing.T) {
	in := workingInputs()
	in.Bear.Year3 = 130 // short thesis with upside

	_, err := Run(in)
	var conflict *DirectionConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected DirectionConflictError, got %v", err)
	}
	if conflict.Direction != Short || conflict.Horizon != ThreeYear {
		t.Errorf("wrong case flagged: %+v", conflict)
	}
}

func TestRun_ZeroBaseValuation(t *testing.T) {
	in := workingInputs()
	in.Base.Today = 0

	if _, err := Run(in); err == nil {
		t.Fatal("expected error for zero base valuation")
	}
}
