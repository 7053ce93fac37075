package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"thesislab/pkg/core/consolidate"
	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/segment"
)

func bindInput() Input {
	series := segment.Series{
		SegmentID:   "specialty",
		SegmentName: "Specialty Eggs",
		Tilt:        "base",
		Years: []segment.YearRow{
			{Year: 0, Quantity: 100, Price: 4.0, Revenue: 400, Cost: 378, TargetMargin: 0.08, OperatingIncome: 22},
			{Year: 3, Quantity: 160, Price: 4.2, Revenue: 672, Cost: 612.5, TargetMargin: 0.11, OperatingIncome: 59.5},
		},
	}
	return Input{
		Summary:   "Long CALM: specialty mix shift re-rates a commodity multiple.",
		Company:   consolidate.Company{Tilt: "base", Years: []consolidate.Year{{Year: 0, Revenue: 400, EBIT: 22}}},
		Snapshots: consolidate.Snapshots{Method: "dcf", Today: 1800, Year3: 2600},
		Series:    []segment.Series{series},
		Ranks: map[string][]segment.DriverRank{
			"specialty": {
				{Driver: "specialty_price", Elasticity: 1.4, Rank: 1},
				{Driver: "specialty_dozens", Elasticity: 1.1, Rank: 2},
			},
		},
		Cases: []scenario.Case{
			{Direction: scenario.Long, Horizon: scenario.ThreeYear, Tilt: "bull", ValuationToday: 1800, ValuationHorizon: 2600, TargetReturnPct: 44.4},
		},
		Notes: map[Topic]string{
			TopicSupplyChain:       "Feed cost pass-through verified with two layer-farm operators.",
			TopicCustomers:         "Top grocers are expanding specialty shelf space.",
			TopicCompetitors:       "Vital Farms holds price; private label trails on brand.",
			TopicOperatingLeverage: "Fixed packing capacity absorbs specialty volume at low incremental cost.",
			TopicKeyPerson:         "CEO succession plan in place since 2023.",
		},
	}
}

func TestBind_FixedSectionOrder(t *testing.T) {
	doc, err := Bind(bindInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Sections) != len(MandatedTopics) {
		t.Fatalf("expected %d sections, got %d", len(MandatedTopics), len(doc.Sections))
	}
	for i, topic := range MandatedTopics {
		if doc.Sections[i].Topic != topic {
			t.Errorf("section %d: got %s want %s", i, doc.Sections[i].Topic, topic)
		}
	}
	if len(doc.Contents) != len(doc.Sections) {
		t.Errorf("table of contents out of sync with sections")
	}
}

func TestBind_MissingTopicFails(t *testing.T) {
	in := bindInput()
	delete(in.Notes, TopicSupplyChain)

	_, err := Bind(in)
	var incomplete *IncompleteSectionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSectionError, got %v", err)
	}
	if incomplete.Topic != TopicSupplyChain {
		t.Errorf("wrong topic flagged: %s", incomplete.Topic)
	}
}

func TestBind_DeferralMarkerAccepted(t *testing.T) {
	in := bindInput()
	in.Notes[TopicSupplyChain] = "Will verify later if time."

	doc, err := Bind(in)
	if err != nil {
		t.Fatalf("deferral marker should be accepted: %v", err)
	}
	for _, s := range doc.Sections {
		if s.Topic == TopicSupplyChain && !s.Deferred {
			t.Error("supply chain section should be marked deferred")
		}
	}
}

func TestBind_SummaryBounds(t *testing.T) {
	in := bindInput()
	in.Summary = strings.Repeat("x", MaxSummaryChars+1)
	if _, err := Bind(in); err == nil {
		t.Error("oversized summary should be rejected")
	}

	in.Summary = "   "
	if _, err := Bind(in); err == nil {
		t.Error("empty summary should be rejected")
	}
}

func TestBind_FinalizesCases(t *testing.T) {
	in := bindInput()
	if _, err := Bind(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Cases[0].Finalized {
		t.Error("bound case should be finalized")
	}
}

func TestBind_DoesNotAlterNumbers(t *testing.T) {
	in := bindInput()
	wantReturn := in.Cases[0].TargetReturnPct

	doc, err := Bind(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Cases[0].TargetReturnPct != wantReturn {
		t.Error("binder must not alter scenario numbers")
	}
	if !strings.Contains(doc.Sections[0].Body, "+44.4%") {
		t.Errorf("valuation section should carry the verified return, got: %s", doc.Sections[0].Body)
	}
}

func TestRenderMarkdown(t *testing.T) {
	doc, err := Bind(bindInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	md, err := RenderMarkdown(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(md, "# Summary") {
		t.Error("summary must lead the document")
	}
	if !strings.Contains(md, "# Contents") {
		t.Error("table of contents missing")
	}
	if !strings.Contains(md, "# Operating Leverage") {
		t.Error("mandated section missing from render")
	}
}

func TestExportModel(t *testing.T) {
	in := bindInput()
	var buf bytes.Buffer

	if err := ExportModel(&buf, in.Series, in.Cases); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header + 2 segment years + case header + 1 case.
	if len(lines) != 5 {
		t.Fatalf("expected 5 csv lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "segment_year,specialty,0,") {
		t.Errorf("unexpected first data row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[4], "scenario_case,long,3yr,bull,") {
		t.Errorf("unexpected case row: %s", lines[4])
	}
}
