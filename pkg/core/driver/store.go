package driver

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// STORE (append-only revision log)
// =============================================================================

// Store holds every input driver with source and confidence tags. State is
// never mutated in place: each Add or Revise appends a Revision, and the
// latest revision per (name, horizon) wins. The full log stays available
// for audit, including deferred placeholders and their eventual resolution.
type Store struct {
	mu     sync.Mutex
	log    []Revision
	latest map[string]int // key -> index into log
}

// NewStore creates an empty assumption store.
func NewStore() *Store {
	return &Store{latest: make(map[string]int)}
}

func key(name string, h Horizon) string {
	return name + "@" + string(h)
}

func validate(d Driver) error {
	if d.Name == "" {
		return &MissingSourceError{Name: "(unnamed)", Reason: "driver name cannot be empty"}
	}
	if !d.Horizon.Valid() {
		return &MissingSourceError{Name: d.Name, Reason: "horizon must be 'today' or '+3y'"}
	}
	if !d.Confidence.Valid() {
		return &MissingSourceError{Name: d.Name, Reason: "missing confidence tag"}
	}
	if d.Confidence == ConfidenceVerified && d.Source.Empty() {
		return &MissingSourceError{Name: d.Name, Reason: "verified driver must cite a source"}
	}
	return nil
}

// Add records a new driver value. Drivers missing a confidence tag are
// rejected with a MissingSourceError. Adding an already-known driver
// appends a new revision (equivalent to Revise without a version check).
func (s *Store) Add(d Driver) error {
	if err := validate(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(d)
	return nil
}

// Revise records a new value for an existing driver using optimistic
// versioning: expectVersion must match the current version or the revision
// is rejected with a StaleDriverVersionError.
func (s *Store) Revise(d Driver, expectVersion int) error {
	if err := validate(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.latest[key(d.Name, d.Horizon)]
	if !ok {
		return &UnknownDriverError{Name: d.Name, Horizon: d.Horizon}
	}
	if cur := s.log[idx].Version; cur != expectVersion {
		return &StaleDriverVersionError{Name: d.Name, Horizon: d.Horizon, Expected: expectVersion, Current: cur}
	}
	s.append(d)
	return nil
}

// append assumes s.mu is held.
func (s *Store) append(d Driver) {
	k := key(d.Name, d.Horizon)
	version := 1
	if idx, ok := s.latest[k]; ok {
		version = s.log[idx].Version + 1
	}
	s.log = append(s.log, Revision{
		ID:         uuid.New().String(),
		Version:    version,
		Driver:     d,
		RecordedAt: time.Now(),
	})
	s.latest[k] = len(s.log) - 1
}

// Get returns the most recent driver value for the given horizon, or an
// UnknownDriverError on a lookup miss.
func (s *Store) Get(name string, h Horizon) (Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.latest[key(name, h)]
	if !ok {
		return Driver{}, &UnknownDriverError{Name: name, Horizon: h}
	}
	return s.log[idx].Driver, nil
}

// Version returns the current version of a driver, or zero if unknown.
func (s *Store) Version(name string, h Horizon) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.latest[key(name, h)]
	if !ok {
		return 0
	}
	return s.log[idx].Version
}

// Log returns a copy of the full revision history in insertion order.
func (s *Store) Log() []Revision {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Revision, len(s.log))
	copy(out, s.log)
	return out
}

// Deferred lists the names of drivers whose latest revision still carries
// the deferral tag. Useful for the pre-publication checklist.
func (s *Store) Deferred() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var names []string
	for _, idx := range s.latest {
		rev := s.log[idx]
		if rev.Driver.Confidence == ConfidenceDeferred && !seen[rev.Driver.Name] {
			seen[rev.Driver.Name] = true
			names = append(names, rev.Driver.Name)
		}
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// SNAPSHOT (frozen inputs)
// =============================================================================

// Snapshot is an immutable copy of the latest driver values, taken before a
// scenario run. Later store revisions never alter a snapshot: a driver
// change requires regenerating every downstream entity from a new snapshot.
type Snapshot struct {
	ID       string
	Tilt     string // "base", "bull", "bear"
	FrozenAt time.Time
	drivers  map[string]Driver
}

// Freeze captures the current latest values as a base-tilt snapshot.
func (s *Store) Freeze() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{
		ID:       uuid.New().String(),
		Tilt:     "base",
		FrozenAt: time.Now(),
		drivers:  make(map[string]Driver, len(s.latest)),
	}
	for k, idx := range s.latest {
		snap.drivers[k] = s.log[idx].Driver
	}
	return snap
}

// Get returns the frozen driver for (name, horizon) or an UnknownDriverError.
func (sn *Snapshot) Get(name string, h Horizon) (Driver, error) {
	d, ok := sn.drivers[key(name, h)]
	if !ok {
		return Driver{}, &UnknownDriverError{Name: name, Horizon: h}
	}
	return d, nil
}

// Value returns the frozen value for (name, horizon).
func (sn *Snapshot) Value(name string, h Horizon) (float64, error) {
	d, err := sn.Get(name, h)
	if err != nil {
		return 0, err
	}
	return d.Value, nil
}

// Names lists the distinct driver names in the snapshot, sorted.
func (sn *Snapshot) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range sn.drivers {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}

// WithTilt derives a new snapshot with the given factors applied
// multiplicatively to the named drivers at every horizon. The parent
// snapshot is untouched. Used for bull/bear assumption sets.
func (sn *Snapshot) WithTilt(tilt string, factors map[string]float64) *Snapshot {
	out := &Snapshot{
		ID:       uuid.New().String(),
		Tilt:     tilt,
		FrozenAt: sn.FrozenAt,
		drivers:  make(map[string]Driver, len(sn.drivers)),
	}
	for k, d := range sn.drivers {
		if f, ok := factors[d.Name]; ok {
			d.Value *= f
		}
		out.drivers[k] = d
	}
	return out
}
