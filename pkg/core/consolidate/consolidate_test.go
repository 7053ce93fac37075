package consolidate

import (
	"math"
	"testing"

	"thesislab/pkg/core/segment"
)

func flatSeries(id string, revenue, oi float64) segment.Series {
	s := segment.Series{SegmentID: id, SegmentName: id, Tilt: "base"}
	for year := 0; year <= 3; year++ {
		s.Years = append(s.Years, segment.YearRow{
			Year:            year,
			Revenue:         revenue,
			Cost:            revenue - oi,
			OperatingIncome: oi,
		})
	}
	return s
}

func TestConsolidate_SumsSegments(t *testing.T) {
	company, err := Consolidate([]segment.Series{
		flatSeries("conventional", 1000, 80),
		flatSeries("specialty", 400, 60),
	}, 0.21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	y0 := company.Row(0)
	if y0.Revenue != 1400 {
		t.Errorf("revenue: got %v want 1400", y0.Revenue)
	}
	if y0.EBIT != 140 {
		t.Errorf("EBIT: got %v want 140", y0.EBIT)
	}
	want := 140 * (1 - 0.21)
	if math.Abs(y0.NetIncome-want) > 1e-9 {
		t.Errorf("net income: got %v want %v", y0.NetIncome, want)
	}
}

func TestConsolidate_RejectsMismatchedTilts(t *testing.T) {
	a := flatSeries("a", 100, 10)
	b := flatSeries("b", 100, 10)
	b.Tilt = "bull"

	if _, err := Consolidate([]segment.Series{a, b}, 0.21); err == nil {
		t.Fatal("expected error for mismatched tilts")
	}
}

func TestConsolidate_RejectsEmptyInput(t *testing.T) {
	if _, err := Consolidate(nil, 0.21); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestEBITMultiple(t *testing.T) {
	company, _ := Consolidate([]segment.Series{flatSeries("a", 1000, 100)}, 0.21)

	snaps, err := Value(company, EBITMultiple{Multiple: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snaps.Today != 800 || snaps.Year3 != 800 {
		t.Errorf("flat EBIT at 8x should value 800/800, got %+v", snaps)
	}
	if snaps.Method != "ebit_multiple" {
		t.Errorf("method label: %s", snaps.Method)
	}
}

func TestDCF_GordonTerminal(t *testing.T) {
	// Flat EBIT of 100, tax 21%: FCF = 79 every year.
	company, _ := Consolidate([]segment.Series{flatSeries("a", 1000, 100)}, 0.21)
	m := DCF{DiscountRate: 0.10, TerminalGrowth: 0.02, TaxRate: 0.21}

	snaps, err := Value(company, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Standing at year 3 the whole value is the terminal capitalization:
	// 79 * 1.02 / 0.08.
	wantY3 := 79.0 * 1.02 / 0.08
	if math.Abs(snaps.Year3-wantY3) > 1e-6 {
		t.Errorf("year-3 EV: got %v want %v", snaps.Year3, wantY3)
	}

	// Today's EV discounts years 1..3 plus the terminal.
	wantToday := 79/1.1 + 79/(1.1*1.1) + 79/(1.1*1.1*1.1) + wantY3/(1.1*1.1*1.1)
	if math.Abs(snaps.Today-wantToday) > 1e-6 {
		t.Errorf("today EV: got %v want %v", snaps.Today, wantToday)
	}
}

func TestDCF_RejectsGrowthAboveDiscount(t *testing.T) {
	company, _ := Consolidate([]segment.Series{flatSeries("a", 1000, 100)}, 0.21)
	m := DCF{DiscountRate: 0.02, TerminalGrowth: 0.03, TaxRate: 0.21}

	if _, err := Value(company, m); err == nil {
		t.Fatal("expected error when terminal growth exceeds discount rate")
	}
}

func TestValuationDeterminism(t *testing.T) {
	series := []segment.Series{
		flatSeries("conventional", 1000, 80),
		flatSeries("specialty", 400, 60),
	}

	first, err := Consolidate(series, 0.21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := Consolidate(series, 0.21)

	m := DCF{DiscountRate: 0.09, TerminalGrowth: 0.025, TaxRate: 0.21}
	a, _ := Value(first, m)
	b, _ := Value(second, m)

	// Bit-identical, not merely close.
	if a.Today != b.Today || a.Year3 != b.Year3 {
		t.Errorf("valuation not deterministic: %+v vs %+v", a, b)
	}
}
