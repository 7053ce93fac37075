package driver

import "fmt"

// MissingSourceError is returned when a driver arrives without a confidence
// tag, or claims verification without citing a source. Recoverable: the
// caller re-prompts for provenance and retries.
type MissingSourceError struct {
	Name   string
	Reason string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("driver '%s' rejected: %s", e.Name, e.Reason)
}

// UnknownDriverError is returned by lookups for a driver that was never
// recorded for the requested horizon.
type UnknownDriverError struct {
	Name    string
	Horizon Horizon
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("no driver '%s' recorded for horizon %s", e.Name, e.Horizon)
}

// StaleDriverVersionError is returned when a revision is submitted against
// an out-of-date version. Revisions are human-paced, so optimistic
// versioning is used instead of locking.
type StaleDriverVersionError struct {
	Name     string
	Horizon  Horizon
	Expected int
	Current  int
}

func (e *StaleDriverVersionError) Error() string {
	return fmt.Sprintf("stale revision of '%s' (%s): expected version %d, current is %d",
		e.Name, e.Horizon, e.Expected, e.Current)
}
