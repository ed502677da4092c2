package model

import "time"

// RawRecord is the schema-agnostic shape of one upstream entry. The
// source of truth is external; a RawRecord is never mutated after it
// has been received.
type RawRecord map[string]interface{}

// University is the canonical record produced by the transformer. It is
// never patched in place: the next full run supersedes it entirely.
type University struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Country       string    `json:"country"`
	AlphaCode     *string   `json:"alphaCode"`
	StateProvince *string   `json:"stateProvince"`
	Domains       []string  `json:"domains"`
	WebPages      []string  `json:"webPages"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// TransformFailure records one rejected raw record with its position in
// the input and a human-readable reason.
type TransformFailure struct {
	Index     int       `json:"index"`
	RawRecord RawRecord `json:"rawRecord"`
	Error     string    `json:"error"`
}

// TransformBatch is the result of transforming one full raw dataset.
// SuccessCount + FailureCount always equals TotalInput.
type TransformBatch struct {
	Records       []University       `json:"records"`
	TotalInput    int                `json:"totalInput"`
	SuccessCount  int                `json:"successCount"`
	FailureCount  int                `json:"failureCount"`
	TransformedAt time.Time          `json:"transformedAt"`
	Failures      []TransformFailure `json:"failures"`
}

// Snapshot is the durable form of the most recent batch. Exactly one
// live snapshot exists at a time.
type Snapshot struct {
	SavedAt     time.Time      `json:"savedAt"`
	RecordCount int            `json:"recordCount"`
	Batch       TransformBatch `json:"batch"`
}

// SaveResult reports what a save wrote and where.
type SaveResult struct {
	RecordsLoaded int      `json:"recordsLoaded"`
	Locations     []string `json:"locations"`
}

// RunResult carries the per-stage counts of a successful pipeline run.
// Extracted and Transformed may legitimately differ when individual
// records fail transformation.
type RunResult struct {
	Extracted   int           `json:"extracted"`
	Transformed int           `json:"transformed"`
	Loaded      int           `json:"loaded"`
	Duration    time.Duration `json:"-"`
}

// Trigger types for a pipeline firing.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// RunOutcome is the immutable record of one pipeline firing, whether it
// succeeded or not.
type RunOutcome struct {
	Timestamp     time.Time `json:"timestamp"`
	Success       bool      `json:"success"`
	DurationMs    int64     `json:"durationMs"`
	RecordsLoaded int       `json:"recordsLoaded,omitempty"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	TriggerType   string    `json:"triggerType"`
}

// SchedulerStatus is a point-in-time view of the scheduler state.
type SchedulerStatus struct {
	Armed     bool         `json:"armed"`
	Executing bool         `json:"executing"`
	NextRun   *time.Time   `json:"nextRun,omitempty"`
	History   []RunOutcome `json:"history"`
}
