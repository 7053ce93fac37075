// Package consolidate aggregates segment series into company-level
// financials and values the company at the two reporting horizons.
// Everything here is pure float math over frozen inputs: identical inputs
// always produce identical valuations.
package consolidate

import (
	"fmt"

	"thesislab/pkg/core/segment"
)

// Year is one consolidated company year.
type Year struct {
	Year      int     `json:"year"`
	Revenue   float64 `json:"revenue"`
	EBIT      float64 `json:"ebit"`
	NetIncome float64 `json:"net_income"`
}

// Company is the consolidated view of all segments under one tilt.
type Company struct {
	Tilt  string `json:"tilt"`
	Years []Year `json:"years"`
}

// Row returns the consolidated row for a year, or nil when out of range.
func (c Company) Row(year int) *Year {
	for i := range c.Years {
		if c.Years[i].Year == year {
			return &c.Years[i]
		}
	}
	return nil
}

// Consolidate sums segment financials into company revenue, EBIT and net
// income per year. Net income is EBIT after tax; the exercise models an
// unlevered company, so there is no interest line.
func Consolidate(series []segment.Series, taxRate float64) (Company, error) {
	if len(series) == 0 {
		return Company{}, fmt.Errorf("no segment series to consolidate")
	}
	if taxRate < 0 || taxRate >= 1 {
		return Company{}, fmt.Errorf("tax rate %.3f out of range [0, 1)", taxRate)
	}

	n := len(series[0].Years)
	tilt := series[0].Tilt
	for _, s := range series {
		if len(s.Years) != n {
			return Company{}, fmt.Errorf("segment '%s' has %d years, expected %d", s.SegmentID, len(s.Years), n)
		}
		if s.Tilt != tilt {
			return Company{}, fmt.Errorf("segment '%s' tilt '%s' does not match '%s'", s.SegmentID, s.Tilt, tilt)
		}
	}

	out := Company{Tilt: tilt, Years: make([]Year, n)}
	for i := 0; i < n; i++ {
		row := Year{Year: series[0].Years[i].Year}
		for _, s := range series {
			row.Revenue += s.Years[i].Revenue
			row.EBIT += s.Years[i].OperatingIncome
		}
		row.NetIncome = row.EBIT * (1 - taxRate)
		out.Years[i] = row
	}
	return out, nil
}
