package segment

import (
	"errors"

	"thesislab/pkg/core/driver"
)

// =============================================================================
// YEARLY SERIES
// =============================================================================

// YearRow is one projected year of a segment.
type YearRow struct {
	Year            int     `json:"year"`
	Quantity        float64 `json:"quantity"`
	Price           float64 `json:"price"`
	Revenue         float64 `json:"revenue"`
	Cost            float64 `json:"cost"`
	TargetMargin    float64 `json:"target_margin"`    // normalized margin path
	OperatingIncome float64 `json:"operating_income"` // after explicit cost drivers
}

// Series is the projected path of a single segment, year 0 through year 3.
type Series struct {
	SegmentID   string    `json:"segment_id"`
	SegmentName string    `json:"segment_name"`
	Tilt        string    `json:"tilt"`
	Years       []YearRow `json:"years"`
}

// OperatingIncomeTotal sums operating income over the reported window.
func (s Series) OperatingIncomeTotal() float64 {
	var total float64
	for _, y := range s.Years {
		total += y.OperatingIncome
	}
	return total
}

// Row returns the row for a given year, or nil when out of range.
func (s Series) Row(year int) *YearRow {
	for i := range s.Years {
		if s.Years[i].Year == year {
			return &s.Years[i]
		}
	}
	return nil
}

// driverPath reads a driver at both horizons and interpolates linearly
// across the intermediate years. Both horizons must be present.
func driverPath(sn *driver.Snapshot, segID, name string) (func(year int) float64, error) {
	v0, err := sn.Value(name, driver.HorizonToday)
	if err != nil {
		var unknown *driver.UnknownDriverError
		if errors.As(err, &unknown) {
			return nil, &InsufficientDriverError{SegmentID: segID, Driver: name, Horizon: driver.HorizonToday}
		}
		return nil, err
	}
	v3, err := sn.Value(name, driver.HorizonThreeYear)
	if err != nil {
		var unknown *driver.UnknownDriverError
		if errors.As(err, &unknown) {
			return nil, &InsufficientDriverError{SegmentID: segID, Driver: name, Horizon: driver.HorizonThreeYear}
		}
		return nil, err
	}
	return func(year int) float64 {
		if year <= 0 {
			return v0
		}
		if year >= ProjectionYears {
			return v3
		}
		return v0 + (v3-v0)*float64(year)/float64(ProjectionYears)
	}, nil
}

// Project computes the yearly series for the segment from a frozen snapshot.
// Revenue = quantity x price; cost = revenue x (1 - margin(t)) plus any
// explicit cost drivers. Fails with an InsufficientDriverError if a required
// driver is absent for either horizon.
func (s Segment) Project(sn *driver.Snapshot) (Series, error) {
	if err := s.Validate(); err != nil {
		return Series{}, err
	}

	quantity, err := driverPath(sn, s.ID, s.QuantityDriver)
	if err != nil {
		return Series{}, err
	}
	price, err := driverPath(sn, s.ID, s.PriceDriver)
	if err != nil {
		return Series{}, err
	}

	costPaths := make([]func(int) float64, len(s.CostDrivers))
	for i, cd := range s.CostDrivers {
		p, err := driverPath(sn, s.ID, cd.Name)
		if err != nil {
			return Series{}, err
		}
		costPaths[i] = p
	}

	out := Series{SegmentID: s.ID, SegmentName: s.Name, Tilt: sn.Tilt}
	for year := 0; year <= ProjectionYears; year++ {
		q := quantity(year)
		p := price(year)
		revenue := q * p
		margin := s.MarginAt(year)
		oi := revenue * margin

		for i, cd := range s.CostDrivers {
			v := costPaths[i](year)
			if cd.PerUnit {
				oi -= v * q
			} else {
				oi -= v
			}
		}

		out.Years = append(out.Years, YearRow{
			Year:            year,
			Quantity:        q,
			Price:           p,
			Revenue:         revenue,
			Cost:            revenue - oi,
			TargetMargin:    margin,
			OperatingIncome: oi,
		})
	}
	return out, nil
}
