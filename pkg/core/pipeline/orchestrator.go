// Package pipeline wires the full run: assumption store -> segment model
// -> consolidation -> scenario engine -> consistency checker -> report
// binder. A run either completes with a bound document or exits early on
// the first validation failure; consistency violations are carried in the
// result for human review, never auto-corrected.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"thesislab/pkg/core/consolidate"
	"thesislab/pkg/core/driver"
	"thesislab/pkg/core/ingest"
	"thesislab/pkg/core/report"
	"thesislab/pkg/core/scenario"
	"thesislab/pkg/core/segment"
	"thesislab/pkg/core/store"
	"thesislab/pkg/core/thesis"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config holds the analyst-judgment parameters: valuation methodology,
// rates, tolerance. The brief leaves these open, so nothing is hardcoded.
type Config struct {
	ValuationMethod string  `mapstructure:"valuation_method" yaml:"valuation_method"` // "ebit_multiple" or "dcf"
	EBITMultiple    float64 `mapstructure:"ebit_multiple" yaml:"ebit_multiple"`
	DiscountRate    float64 `mapstructure:"discount_rate" yaml:"discount_rate"`
	TerminalGrowth  float64 `mapstructure:"terminal_growth" yaml:"terminal_growth"`
	TaxRate         float64 `mapstructure:"tax_rate" yaml:"tax_rate"`
	Tolerance       float64 `mapstructure:"tolerance" yaml:"tolerance"`
}

// DefaultConfig returns workable defaults for a dry run.
func DefaultConfig() Config {
	return Config{
		ValuationMethod: "dcf",
		EBITMultiple:    8.0,
		DiscountRate:    0.09,
		TerminalGrowth:  0.025,
		TaxRate:         0.21,
		Tolerance:       thesis.DefaultTolerance,
	}
}

// Method resolves the configured valuation method.
func (c Config) Method() (consolidate.Method, error) {
	switch c.ValuationMethod {
	case "ebit_multiple":
		return consolidate.EBITMultiple{Multiple: c.EBITMultiple}, nil
	case "dcf":
		return consolidate.DCF{
			DiscountRate:   c.DiscountRate,
			TerminalGrowth: c.TerminalGrowth,
			TaxRate:        c.TaxRate,
		}, nil
	}
	return nil, fmt.Errorf("unknown valuation method '%s'", c.ValuationMethod)
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Result is everything a completed run produced.
type Result struct {
	Ticker     string
	SnapshotID string
	Series     []segment.Series // base tilt
	Company    consolidate.Company
	Snapshots  consolidate.Snapshots
	Ranks      map[string][]segment.DriverRank
	Cases      []scenario.Case
	Violations []thesis.ConsistencyViolation
	Deferred   []string // drivers still tagged "will verify later if time"
	Document   *report.Document
}

// Orchestrator runs the end-to-end flow for one workbook.
type Orchestrator struct {
	cfg  Config
	repo store.CaseRepository
}

// New creates an orchestrator. The repository is optional; without one the
// run completes but nothing is persisted.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{cfg: cfg}
}

// SetRepository injects a case repository (or a test double).
func (o *Orchestrator) SetRepository(repo store.CaseRepository) {
	o.repo = repo
}

// Run executes the full pipeline for a loaded workbook.
func (o *Orchestrator) Run(ctx context.Context, wb *ingest.Workbook) (*Result, error) {
	start := time.Now()
	log.Info().Str("ticker", wb.Ticker).Msg("pipeline starting")

	method, err := o.cfg.Method()
	if err != nil {
		return nil, err
	}

	// 1. Assumption store: validate provenance, then freeze.
	st := driver.NewStore()
	if err := wb.Populate(st); err != nil {
		return nil, err
	}
	base := st.Freeze()
	bull := base.WithTilt("bull", wb.BullTilt)
	bear := base.WithTilt("bear", wb.BearTilt)
	log.Info().Str("snapshot", base.ID).Int("drivers", len(base.Names())).Msg("drivers frozen")

	// 2-3. Segment projections and consolidated valuation, per tilt.
	baseSeries, baseCompany, baseSnaps, err := o.valueTilt(base, wb, method)
	if err != nil {
		return nil, fmt.Errorf("base case: %w", err)
	}
	_, _, bullSnaps, err := o.valueTilt(bull, wb, method)
	if err != nil {
		return nil, fmt.Errorf("bull case: %w", err)
	}
	_, _, bearSnaps, err := o.valueTilt(bear, wb, method)
	if err != nil {
		return nil, fmt.Errorf("bear case: %w", err)
	}

	// 4. Scenario engine: four position cases, no neutral outcomes.
	cases, err := scenario.Run(scenario.Inputs{
		SnapshotID: base.ID,
		Base:       baseSnaps,
		Bull:       bullSnaps,
		Bear:       bearSnaps,
	})
	if err != nil {
		return nil, err
	}

	// 5. Driver importance per segment, on the base snapshot.
	ranks := make(map[string][]segment.DriverRank, len(wb.Segments))
	for _, seg := range wb.Segments {
		r, err := seg.RankDrivers(base)
		if err != nil {
			return nil, err
		}
		ranks[seg.ID] = r
	}

	// 6. Consistency check: collect every mismatch, do not stop.
	idx := thesis.BuildIndex(baseCompany, baseSnaps, cases, baseSeries)
	violations := thesis.Checker{Tolerance: o.cfg.Tolerance}.Check(wb.Claims, idx)
	if len(violations) > 0 {
		log.Warn().Int("violations", len(violations)).Msg("thesis disagrees with model")
	}

	// 7. Bind the report. Missing mandated topics are fatal until the
	// analyst marks them deferred.
	doc, err := report.Bind(report.Input{
		Summary:   wb.Summary,
		Company:   baseCompany,
		Snapshots: baseSnaps,
		Series:    baseSeries,
		Ranks:     ranks,
		Cases:     cases,
		Claims:    wb.Claims,
		Notes:     wb.TopicNotes(),
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Ticker:     wb.Ticker,
		SnapshotID: base.ID,
		Series:     baseSeries,
		Company:    baseCompany,
		Snapshots:  baseSnaps,
		Ranks:      ranks,
		Cases:      cases,
		Violations: violations,
		Deferred:   st.Deferred(),
		Document:   doc,
	}

	// 8. Persist the audit bundle.
	if o.repo != nil {
		bundle := &store.CaseBundle{
			Ticker:     wb.Ticker,
			SnapshotID: base.ID,
			DriverLog:  st.Log(),
			Cases:      cases,
			Violations: violations,
		}
		if err := o.repo.Save(ctx, bundle); err != nil {
			return nil, fmt.Errorf("persisting case bundle: %w", err)
		}
	}

	log.Info().
		Str("ticker", wb.Ticker).
		Dur("elapsed", time.Since(start)).
		Int("cases", len(cases)).
		Int("violations", len(violations)).
		Msg("pipeline complete")
	return result, nil
}

func (o *Orchestrator) valueTilt(snap *driver.Snapshot, wb *ingest.Workbook, method consolidate.Method) ([]segment.Series, consolidate.Company, consolidate.Snapshots, error) {
	var series []segment.Series
	for _, seg := range wb.Segments {
		s, err := seg.Project(snap)
		if err != nil {
			return nil, consolidate.Company{}, consolidate.Snapshots{}, err
		}
		series = append(series, s)
	}
	company, err := consolidate.Consolidate(series, o.cfg.TaxRate)
	if err != nil {
		return nil, consolidate.Company{}, consolidate.Snapshots{}, err
	}
	snaps, err := consolidate.Value(company, method)
	if err != nil {
		return nil, consolidate.Company{}, consolidate.Snapshots{}, err
	}
	return series, company, snaps, nil
}
