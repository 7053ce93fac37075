// Package segment computes per-segment revenue, cost and margin paths from
// the frozen driver snapshot. The core decomposition is Price x Volume for
// revenue with a normalized margin path for cost, plus optional cost
// drivers for items the analyst models explicitly (feed, freight).
package segment

import (
	"fmt"

	"thesislab/pkg/core/driver"
)

// ProjectionYears is the reporting window: year 0 (current) through year 3.
const ProjectionYears = 3

// Normalization horizon bounds in years. The steady-state margin is reached
// somewhere in this window; the reported series is clipped at year 3.
const (
	MinNormalizationYears = 5
	MaxNormalizationYears = 10
)

// =============================================================================
// SEGMENT DEFINITION
// =============================================================================

// CostDriver is an explicit cost item subtracted from normalized operating
// income. PerUnit costs scale with the quantity driver (e.g. feed cost per
// dozen); absolute costs are read as-is (e.g. segment fixed overhead, $M).
type CostDriver struct {
	Name    string `json:"name" yaml:"name"`
	PerUnit bool   `json:"per_unit" yaml:"per_unit"`
}

// Segment describes one reportable business line.
type Segment struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`

	// Revenue decomposition: revenue = quantity x price.
	QuantityDriver string `json:"quantity_driver" yaml:"quantity_driver"`
	PriceDriver    string `json:"price_driver" yaml:"price_driver"`

	// Optional explicit cost items.
	CostDrivers []CostDriver `json:"cost_drivers,omitempty" yaml:"cost_drivers,omitempty"`

	// Margin normalization: blend from today's margin to the long-run
	// margin benchmarked against comparable businesses.
	MarginToday         float64         `json:"margin_today" yaml:"margin_today"`
	MarginLongRun       float64         `json:"margin_long_run" yaml:"margin_long_run"`
	NormalizationSource driver.Citation `json:"normalization_source" yaml:"normalization_source"`
	NormalizationYears  int             `json:"normalization_years" yaml:"normalization_years"`
}

// Validate checks the segment definition. The long-run margin must cite a
// comparable-business source; an uncited steady-state margin is exactly the
// kind of number that drifts away from the thesis.
func (s Segment) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("segment ID cannot be empty")
	}
	if s.QuantityDriver == "" || s.PriceDriver == "" {
		return fmt.Errorf("segment '%s': quantity and price drivers are required", s.ID)
	}
	if s.MarginToday <= -1 || s.MarginToday >= 1 {
		return fmt.Errorf("segment '%s': margin_today %.3f out of range (-1, 1)", s.ID, s.MarginToday)
	}
	if s.MarginLongRun <= -1 || s.MarginLongRun >= 1 {
		return fmt.Errorf("segment '%s': margin_long_run %.3f out of range (-1, 1)", s.ID, s.MarginLongRun)
	}
	if s.NormalizationSource.Empty() {
		return fmt.Errorf("segment '%s': margin_long_run must cite a comparable-business source", s.ID)
	}
	if s.NormalizationYears < MinNormalizationYears || s.NormalizationYears > MaxNormalizationYears {
		return fmt.Errorf("segment '%s': normalization_years %d outside [%d, %d]",
			s.ID, s.NormalizationYears, MinNormalizationYears, MaxNormalizationYears)
	}
	seen := map[string]bool{s.QuantityDriver: true, s.PriceDriver: true}
	for _, cd := range s.CostDrivers {
		if cd.Name == "" {
			return fmt.Errorf("segment '%s': cost driver name cannot be empty", s.ID)
		}
		if seen[cd.Name] {
			return fmt.Errorf("segment '%s': duplicate driver '%s'", s.ID, cd.Name)
		}
		seen[cd.Name] = true
	}
	return nil
}

// MarginAt returns the blended target margin for a projection year:
// linear interpolation from margin_today to margin_long_run across the
// normalization horizon, held flat afterwards.
func (s Segment) MarginAt(year int) float64 {
	if year < 0 {
		year = 0
	}
	n := s.NormalizationYears
	if year >= n {
		return s.MarginLongRun
	}
	frac := float64(year) / float64(n)
	return s.MarginToday + (s.MarginLongRun-s.MarginToday)*frac
}

// DriverNames lists every snapshot driver this segment reads.
func (s Segment) DriverNames() []string {
	names := []string{s.QuantityDriver, s.PriceDriver}
	for _, cd := range s.CostDrivers {
		names = append(names, cd.Name)
	}
	return names
}

// InsufficientDriverError blocks a segment computation when a required
// driver is absent for a requested horizon.
type InsufficientDriverError struct {
	SegmentID string
	Driver    string
	Horizon   driver.Horizon
}

func (e *InsufficientDriverError) Error() string {
	return fmt.Sprintf("segment '%s': driver '%s' missing for horizon %s",
		e.SegmentID, e.Driver, e.Horizon)
}
