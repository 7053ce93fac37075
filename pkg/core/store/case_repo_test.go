package store

import (
	"context"
	"testing"

	"thesislab/pkg/core/scenario"
)

func TestCaseRepo_FileRoundTrip(t *testing.T) {
	repo := NewCaseRepo(nil, t.TempDir())

	bundle := &CaseBundle{
		Ticker:     "CALM",
		SnapshotID: "snap-1",
		Cases: []scenario.Case{
			{Direction: scenario.Long, Horizon: scenario.ThreeYear, TargetReturnPct: 44.4, Finalized: true},
		},
	}

	ctx := context.Background()
	if err := repo.Save(ctx, bundle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.ID == "" {
		t.Error("save should assign a bundle ID")
	}

	loaded, err := repo.Load(ctx, "CALM", "snap-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Ticker != "CALM" || len(loaded.Cases) != 1 {
		t.Errorf("bundle mismatch: %+v", loaded)
	}
	if loaded.Cases[0].TargetReturnPct != 44.4 {
		t.Errorf("case detail lost: %+v", loaded.Cases[0])
	}
}

func TestCaseRepo_OverwriteSameSnapshot(t *testing.T) {
	repo := NewCaseRepo(nil, t.TempDir())
	ctx := context.Background()

	first := &CaseBundle{Ticker: "CALM", SnapshotID: "snap-1"}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &CaseBundle{
		Ticker:     "CALM",
		SnapshotID: "snap-1",
		Cases:      []scenario.Case{{Direction: scenario.Short, Horizon: scenario.SixMonth, TargetReturnPct: -10}},
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := repo.Load(ctx, "CALM", "snap-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded.Cases) != 1 || loaded.Cases[0].Direction != scenario.Short {
		t.Errorf("re-save of same snapshot should overwrite: %+v", loaded)
	}
}

func TestCaseRepo_LoadMissing(t *testing.T) {
	repo := NewCaseRepo(nil, t.TempDir())
	if _, err := repo.Load(context.Background(), "CALM", "nope"); err == nil {
		t.Fatal("expected error for missing bundle")
	}
}
