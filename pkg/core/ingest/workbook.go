// Package ingest loads analyst-supplied research data into model inputs:
// YAML workbooks, lenient HJSON/JSON driver files, and comparable-company
// benchmark tables saved as local HTML. Sourcing stays human-driven; this
// package only reads files the analyst placed on disk.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"thesislab/pkg/core/driver"
	"thesislab/pkg/core/report"
	"thesislab/pkg/core/segment"
	"thesislab/pkg/core/thesis"
	"thesislab/pkg/core/utils"
)

// Workbook is the structured research bundle for one company: drivers with
// provenance, segment definitions, thesis claims, and report prose.
type Workbook struct {
	Company string `yaml:"company"`
	Ticker  string `yaml:"ticker"`

	Drivers []driver.Driver `yaml:"drivers"`
	// DriversFile optionally names an HJSON driver file whose entries are
	// appended to Drivers, resolved relative to the workbook.
	DriversFile string            `yaml:"drivers_file,omitempty"`
	Segments    []segment.Segment `yaml:"segments"`
	Claims      []thesis.Claim    `yaml:"claims"`

	Summary string            `yaml:"summary"`
	Notes   map[string]string `yaml:"notes"` // report topic -> prose

	// Scenario tilts: driver name -> multiplicative factor.
	BullTilt map[string]float64 `yaml:"bull_tilt"`
	BearTilt map[string]float64 `yaml:"bear_tilt"`
}

// LoadWorkbook reads and validates a YAML workbook.
func LoadWorkbook(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workbook: %w", err)
	}
	var wb Workbook
	if err := yaml.Unmarshal(data, &wb); err != nil {
		return nil, fmt.Errorf("parsing workbook %s: %w", path, err)
	}
	if wb.DriversFile != "" {
		extra, err := LoadDriversHJSON(filepath.Join(filepath.Dir(path), wb.DriversFile))
		if err != nil {
			return nil, err
		}
		wb.Drivers = append(wb.Drivers, extra...)
	}
	if err := wb.Validate(); err != nil {
		return nil, err
	}
	return &wb, nil
}

// Validate checks structural requirements before anything reaches the
// assumption store.
func (wb *Workbook) Validate() error {
	if wb.Ticker == "" {
		return fmt.Errorf("workbook: ticker is required")
	}
	if len(wb.Segments) == 0 {
		return fmt.Errorf("workbook: at least one segment is required")
	}
	for _, seg := range wb.Segments {
		if err := seg.Validate(); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	}
	for _, c := range wb.Claims {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("workbook: %w", err)
		}
	}
	return nil
}

// Notes keyed by report topic, for the binder.
func (wb *Workbook) TopicNotes() map[report.Topic]string {
	out := make(map[report.Topic]string, len(wb.Notes))
	for k, v := range wb.Notes {
		out[report.Topic(k)] = v
	}
	return out
}

// Populate pushes every workbook driver into the store. Store-level
// validation (confidence tags, citations) applies per driver; the first
// rejection aborts so the analyst can fix provenance and re-run.
func (wb *Workbook) Populate(store *driver.Store) error {
	for _, d := range wb.Drivers {
		if err := store.Add(d); err != nil {
			return fmt.Errorf("workbook driver '%s': %w", d.Name, err)
		}
	}
	return nil
}

// =============================================================================
// LENIENT DRIVER FILES
// =============================================================================

// driverFile is the shape of a standalone driver file.
type driverFile struct {
	Drivers []driver.Driver `json:"drivers"`
}

// LoadDriversHJSON reads an analyst-written HJSON driver file (comments,
// unquoted keys, optional commas all allowed).
func LoadDriversHJSON(path string) ([]driver.Driver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading driver file: %w", err)
	}
	var df driverFile
	if err := utils.ParseHJSONToStruct(string(data), &df); err != nil {
		return nil, fmt.Errorf("driver file %s: %w", path, err)
	}
	return df.Drivers, nil
}

// LoadDriversJSON reads a JSON driver export, repairing the usual paste
// damage (fences, trailing commas, single quotes) before decoding.
func LoadDriversJSON(raw string) ([]driver.Driver, error) {
	var df driverFile
	if err := utils.RepairAndUnmarshal(raw, &df); err != nil {
		return nil, err
	}
	return df.Drivers, nil
}
