// Package scenario computes the four terminal position cases: {long, short}
// x {6 months, 3 years}. Each case is computed independently from frozen
// valuation snapshots; there are no sequential transitions, so the state
// space is a fixed enumerated set rather than a general state machine.
package scenario

import (
	"fmt"

	"github.com/google/uuid"

	"thesislab/pkg/core/consolidate"
)

// =============================================================================
// CASE ENUMERATION
// =============================================================================

// Direction of the position. Strictly long or short; policy forbids a
// neutral call.
type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Horizon of the trade.
type Horizon string

const (
	SixMonth  Horizon = "6mo"
	ThreeYear Horizon = "3yr"
)

// Case is one finalized scenario outcome. Immutable once the report binder
// consumes it; a later driver change regenerates all cases from a fresh
// snapshot rather than patching one.
type Case struct {
	ID               string    `json:"id"`
	Direction        Direction `json:"direction"`
	Horizon          Horizon   `json:"horizon"`
	Tilt             string    `json:"tilt"` // assumption set the case ran on
	ValuationToday   float64   `json:"valuation_today"`
	ValuationHorizon float64   `json:"valuation_horizon"`
	TargetReturnPct  float64   `json:"target_return_pct"` // signed, never zero
	SnapshotID       string    `json:"snapshot_id"`
	Finalized        bool      `json:"finalized"`
}

// Key returns the "direction/horizon" label used in metric lookups.
func (c Case) Key() string {
	return fmt.Sprintf("%s.%s", c.Direction, c.Horizon)
}

// =============================================================================
// ERRORS
// =============================================================================

// NeutralOutcomeError rejects a run whose computed return is exactly zero.
// Policy requires re-running with adjusted assumptions; no neutral output.
type NeutralOutcomeError struct {
	Direction Direction
	Horizon   Horizon
}

func (e *NeutralOutcomeError) Error() string {
	return fmt.Sprintf("scenario %s/%s produced a neutral (zero) return; adjust assumptions and re-run",
		e.Direction, e.Horizon)
}

// DirectionConflictError rejects a run whose return sign contradicts the
// stated direction: a long case pointing down, or a short case pointing up.
type DirectionConflictError struct {
	Direction Direction
	Horizon   Horizon
	ReturnPct float64
}

func (e *DirectionConflictError) Error() string {
	return fmt.Sprintf("scenario %s/%s computed %.2f%%, which contradicts the stated direction",
		e.Direction, e.Horizon, e.ReturnPct)
}

// =============================================================================
// ENGINE
// =============================================================================

// Inputs are the consolidated valuation snapshots per assumption tilt.
// Base is the reference fair value (and the entry price proxy); the long
// cases run on the bull set and the short cases on the bear set.
type Inputs struct {
	SnapshotID string
	Base       consolidate.Snapshots
	Bull       consolidate.Snapshots
	Bear       consolidate.Snapshots
}

// Run computes all four cases. The 6-month case plays re-rating toward the
// directional view of current-year fair value; the 3-year case plays the
// full projection. Returns are relative to the base valuation today.
func Run(in Inputs) ([]Case, error) {
	if in.Base.Today == 0 {
		return nil, fmt.Errorf("base valuation today is zero; cannot compute returns")
	}

	type caseDef struct {
		direction Direction
		horizon   Horizon
		tilt      string
		value     float64
	}
	defs := []caseDef{
		{Long, SixMonth, "bull", in.Bull.Today},
		{Long, ThreeYear, "bull", in.Bull.Year3},
		{Short, SixMonth, "bear", in.Bear.Today},
		{Short, ThreeYear, "bear", in.Bear.Year3},
	}

	cases := make([]Case, 0, len(defs))
	for _, sp := range defs {
		returnPct := (sp.value - in.Base.Today) / in.Base.Today * 100

		if returnPct == 0 {
			return nil, &NeutralOutcomeError{Direction: sp.direction, Horizon: sp.horizon}
		}
		if sp.direction == Long && returnPct < 0 {
			return nil, &DirectionConflictError{Direction: sp.direction, Horizon: sp.horizon, ReturnPct: returnPct}
		}
		if sp.direction == Short && returnPct > 0 {
			return nil, &DirectionConflictError{Direction: sp.direction, Horizon: sp.horizon, ReturnPct: returnPct}
		}

		cases = append(cases, Case{
			ID:               uuid.New().String(),
			Direction:        sp.direction,
			Horizon:          sp.horizon,
			Tilt:             sp.tilt,
			ValuationToday:   in.Base.Today,
			ValuationHorizon: sp.value,
			TargetReturnPct:  returnPct,
			SnapshotID:       in.SnapshotID,
		})
	}
	return cases, nil
}
