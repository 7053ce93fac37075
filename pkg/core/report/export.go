package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/segment"
)

// ExportModel writes the tabular financial-model export: one row per
// segment-year, then one row per scenario case. This is the spreadsheet
// companion to the written document.
func ExportModel(w io.Writer, series []segment.Series, cases []scenario.Case) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"record", "segment", "year", "quantity", "price", "revenue", "cost", "target_margin", "operating_income",
	}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

	for _, s := range series {
		for _, y := range s.Years {
			row := []string{
				"segment_year", s.SegmentID, strconv.Itoa(y.Year),
				f(y.Quantity), f(y.Price), f(y.Revenue), f(y.Cost), f(y.TargetMargin), f(y.OperatingIncome),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing segment row: %w", err)
			}
		}
	}

	if err := cw.Write([]string{
		"record", "direction", "horizon", "tilt", "valuation_today", "valuation_horizon", "target_return_pct", "", "",
	}); err != nil {
		return fmt.Errorf("writing case header: %w", err)
	}
	for _, c := range cases {
		row := []string{
			"scenario_case", string(c.Direction), string(c.Horizon), c.Tilt,
			f(c.ValuationToday), f(c.ValuationHorizon), f(c.TargetReturnPct), "", "",
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing case row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
