package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPipelineRunning is returned to manual triggers while another
	// run is still in flight.
	ErrPipelineRunning = errors.New("pipeline run already in progress")

	// ErrNoSnapshot means no snapshot has been persisted yet. Read
	// paths must not confuse it with an unreadable snapshot.
	ErrNoSnapshot = errors.New("no snapshot available")
)

// ExtractionError is the only failure mode the extractor surfaces. It
// names the attempt count and wraps the last underlying cause.
type ExtractionError struct {
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TransformationError describes a single rejected record. It is
// collected into the batch failures, never returned from Transform
// itself.
type TransformationError struct {
	Index  int
	Reason string
}

func (e *TransformationError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// LoadError wraps a failure on the primary write path. Backup failures
// are downgraded to warnings and never become a LoadError.
type LoadError struct {
	Op  string
	Err error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load: %s: %v", e.Op, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }
