// Package report assembles verified model outputs into the fixed-structure
// deliverable: front-page summary, table of contents, body sections per
// mandated topic. The binder is a pure transformation; it never alters a
// number it is given.
package report

import (
	"fmt"
	"strings"

	"thesislab/pkg/core/consolidate"
	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/segment"
	"thesislab/pkg/core/thesis"
	"thesislab/pkg/core/utils"
)

// DeferralMarker is the literal placeholder that lets a mandated topic ship
// without content. Anything else empty is a hard failure.
const DeferralMarker = "will verify later if time"

// MaxSummaryChars bounds the front-page summary length.
const MaxSummaryChars = 1500

// =============================================================================
// TOPICS
// =============================================================================

// Topic is one mandated report subject.
type Topic string

const (
	TopicValuation         Topic = "valuation"
	TopicSegmentBreakdown  Topic = "segment_breakdown"
	TopicMarginNorm        Topic = "margin_normalization"
	TopicSupplyChain       Topic = "supply_chain"
	TopicCustomers         Topic = "customers"
	TopicCompetitors       Topic = "competitors"
	TopicOperatingLeverage Topic = "operating_leverage"
	TopicKeyPerson         Topic = "key_person"
)

// MandatedTopics is the fixed body-section order.
var MandatedTopics = []Topic{
	TopicValuation,
	TopicSegmentBreakdown,
	TopicMarginNorm,
	TopicSupplyChain,
	TopicCustomers,
	TopicCompetitors,
	TopicOperatingLeverage,
	TopicKeyPerson,
}

var topicTitles = map[Topic]string{
	TopicValuation:         "Valuation",
	TopicSegmentBreakdown:  "Segment Breakdown",
	TopicMarginNorm:        "Margin Normalization",
	TopicSupplyChain:       "Supply Chain",
	TopicCustomers:         "Customers",
	TopicCompetitors:       "Competitors",
	TopicOperatingLeverage: "Operating Leverage",
	TopicKeyPerson:         "Key Person",
}

// IncompleteSectionError is fatal to report generation: a mandated topic
// has neither content nor an explicit deferral placeholder.
type IncompleteSectionError struct {
	Topic Topic
}

func (e *IncompleteSectionError) Error() string {
	return fmt.Sprintf("report section '%s' has no content and no '%s' placeholder",
		e.Topic, DeferralMarker)
}

// =============================================================================
// DOCUMENT TREE
// =============================================================================

// Section is one body section of the bound document.
type Section struct {
	Topic    Topic  `json:"topic"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Deferred bool   `json:"deferred"`
}

// Document is the structured output tree, in fixed order.
type Document struct {
	Summary  string    `json:"summary"`
	Contents []string  `json:"contents"`
	Sections []Section `json:"sections"`
}

// =============================================================================
// BINDER
// =============================================================================

// Input carries everything the binder consumes. Numeric inputs must already
// be validated; the binder formats, it does not recompute.
type Input struct {
	Summary   string
	Company   consolidate.Company
	Snapshots consolidate.Snapshots
	Series    []segment.Series
	Ranks     map[string][]segment.DriverRank // segment ID -> ranked drivers
	Cases     []scenario.Case
	Claims    []thesis.Claim
	// Notes supplies prose for the research topics (supply chain, customers,
	// competitors, operating leverage, key person). Numeric topics are
	// rendered from the model and ignore Notes.
	Notes map[Topic]string
}

// Bind assembles the document. It fails with an IncompleteSectionError for
// any mandated topic with neither content nor a deferral marker, and marks
// the scenario cases finalized: once bound, the numbers are frozen.
func Bind(in Input) (*Document, error) {
	if len(in.Summary) > MaxSummaryChars {
		return nil, fmt.Errorf("summary is %d chars, limit is %d", len(in.Summary), MaxSummaryChars)
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("summary cannot be empty")
	}

	doc := &Document{Summary: strings.TrimSpace(in.Summary)}

	for _, topic := range MandatedTopics {
		body, deferred, err := sectionBody(topic, in)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, Section{
			Topic:    topic,
			Title:    topicTitles[topic],
			Body:     body,
			Deferred: deferred,
		})
		doc.Contents = append(doc.Contents, topicTitles[topic])
	}

	for i := range in.Cases {
		in.Cases[i].Finalized = true
	}
	return doc, nil
}

func sectionBody(topic Topic, in Input) (string, bool, error) {
	switch topic {
	case TopicValuation:
		return valuationBody(in), false, nil
	case TopicSegmentBreakdown:
		return segmentBody(in), false, nil
	case TopicMarginNorm:
		return marginBody(in), false, nil
	}

	note := strings.TrimSpace(utils.CleanMarkdown(in.Notes[topic]))
	if note == "" {
		return "", false, &IncompleteSectionError{Topic: topic}
	}
	if strings.Contains(strings.ToLower(note), DeferralMarker) {
		return note, true, nil
	}
	return note, false, nil
}

func valuationBody(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Method: %s. Enterprise value today %.1f, at +3y %.1f.\n\n",
		in.Snapshots.Method, in.Snapshots.Today, in.Snapshots.Year3)
	for _, c := range in.Cases {
		fmt.Fprintf(&b, "- %s / %s (%s set): target return %+.1f%% (%.1f -> %.1f)\n",
			c.Direction, c.Horizon, c.Tilt, c.TargetReturnPct, c.ValuationToday, c.ValuationHorizon)
	}
	return b.String()
}

func segmentBody(in Input) string {
	var b strings.Builder
	for _, s := range in.Series {
		first, last := s.Years[0], s.Years[len(s.Years)-1]
		fmt.Fprintf(&b, "%s: revenue %.1f -> %.1f, operating income %.1f -> %.1f.\n",
			s.SegmentName, first.Revenue, last.Revenue, first.OperatingIncome, last.OperatingIncome)
		if ranks, ok := in.Ranks[s.SegmentID]; ok && len(ranks) > 0 {
			names := make([]string, len(ranks))
			for i, r := range ranks {
				names[i] = r.Driver
			}
			fmt.Fprintf(&b, "  Principal drivers by importance: %s.\n", strings.Join(names, ", "))
		}
	}
	return b.String()
}

func marginBody(in Input) string {
	var b strings.Builder
	for _, s := range in.Series {
		first, last := s.Years[0], s.Years[len(s.Years)-1]
		fmt.Fprintf(&b, "%s: target margin %.1f%% today blending toward %.1f%% by year %d.\n",
			s.SegmentName, first.TargetMargin*100, last.TargetMargin*100, last.Year)
	}
	return b.String()
}
