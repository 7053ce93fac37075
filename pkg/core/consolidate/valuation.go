package consolidate

import (
	"fmt"
	"math"
)

// =============================================================================
// VALUATION METHODS
// =============================================================================

// Method values the consolidated company at a point in the projection.
// The brief leaves the methodology to analyst judgment, so it is a
// configurable parameter rather than a hardcoded choice.
type Method interface {
	Name() string
	// EnterpriseValue computes EV as seen standing at the given projection
	// year, using only frozen inputs.
	EnterpriseValue(c Company, atYear int) (float64, error)
}

// Snapshots holds the two valuation points the report uses.
type Snapshots struct {
	Method string  `json:"method"`
	Today  float64 `json:"today"`
	Year3  float64 `json:"year3"`
}

// Value produces the current-year and +3-year valuation snapshots.
func Value(c Company, m Method) (Snapshots, error) {
	today, err := m.EnterpriseValue(c, 0)
	if err != nil {
		return Snapshots{}, fmt.Errorf("valuing today: %w", err)
	}
	horizon, err := m.EnterpriseValue(c, 3)
	if err != nil {
		return Snapshots{}, fmt.Errorf("valuing +3y: %w", err)
	}
	return Snapshots{Method: m.Name(), Today: today, Year3: horizon}, nil
}

// =============================================================================
// MULTIPLE ON NORMALIZED EBIT
// =============================================================================

// EBITMultiple applies a fixed multiple to the year's EBIT. The EBIT path
// already embeds the normalized margin blend, so this is a multiple on
// normalized EBIT.
type EBITMultiple struct {
	Multiple float64
}

func (m EBITMultiple) Name() string { return "ebit_multiple" }

func (m EBITMultiple) EnterpriseValue(c Company, atYear int) (float64, error) {
	if m.Multiple <= 0 {
		return 0, fmt.Errorf("EBIT multiple must be positive, got %.2f", m.Multiple)
	}
	row := c.Row(atYear)
	if row == nil {
		return 0, fmt.Errorf("no consolidated year %d", atYear)
	}
	return m.Multiple * row.EBIT, nil
}

// =============================================================================
// DISCOUNTED CASH FLOW
// =============================================================================

// DCF discounts after-tax operating income (the unlevered free cash flow
// proxy for this exercise) through the projection window and capitalizes
// the final year with Gordon growth.
type DCF struct {
	DiscountRate   float64 // supplied by the analyst, e.g. 0.09
	TerminalGrowth float64 // e.g. 0.025
	TaxRate        float64
}

func (m DCF) Name() string { return "dcf" }

func (m DCF) EnterpriseValue(c Company, atYear int) (float64, error) {
	if m.DiscountRate <= m.TerminalGrowth {
		return 0, fmt.Errorf("discount rate %.3f must exceed terminal growth %.3f",
			m.DiscountRate, m.TerminalGrowth)
	}
	if c.Row(atYear) == nil {
		return 0, fmt.Errorf("no consolidated year %d", atYear)
	}

	last := c.Years[len(c.Years)-1]
	fcf := func(y Year) float64 { return y.EBIT * (1 - m.TaxRate) }

	// Present value of explicit years after the valuation point.
	var pv float64
	for _, y := range c.Years {
		if y.Year <= atYear {
			continue
		}
		pv += fcf(y) / math.Pow(1+m.DiscountRate, float64(y.Year-atYear))
	}

	// Terminal value at the final explicit year, discounted back.
	tv := fcf(last) * (1 + m.TerminalGrowth) / (m.DiscountRate - m.TerminalGrowth)
	pv += tv / math.Pow(1+m.DiscountRate, float64(last.Year-atYear))

	return pv, nil
}
