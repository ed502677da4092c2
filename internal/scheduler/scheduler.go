package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"go-university-etl/internal/model"
)

// statusHistoryLimit caps the history view returned by Status.
const statusHistoryLimit = 5

// Runner is the pipeline contract the scheduler drives.
type Runner interface {
	RunOnce(ctx context.Context) (model.RunResult, error)
}

// OutcomeSink receives every recorded run outcome for durable storage.
// Sink failures are logged, never fatal to a firing.
type OutcomeSink interface {
	SaveRunOutcome(outcome model.RunOutcome) error
}

// Scheduler owns the recurring daily trigger, the manual trigger and
// the execution gate. At most one pipeline run is in flight at any
// time, process-wide.
type Scheduler struct {
	runner   *cron.Cron
	pipeline Runner
	sink     OutcomeSink

	hour, minute int
	loc          *time.Location
	historyCap   int

	mu        sync.Mutex
	armed     bool
	entryID   cron.EntryID
	executing bool
	history   []model.RunOutcome
}

// New creates a scheduler firing daily at hour:minute in loc. sink may
// be nil.
func New(p Runner, sink OutcomeSink, hour, minute int, loc *time.Location, historyCap int) *Scheduler {
	return &Scheduler{
		runner: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		pipeline:   p,
		sink:       sink,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		historyCap: historyCap,
	}
}

// Start arms the recurring trigger. Arming an already armed scheduler
// is a no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.armed {
		log.Printf("scheduler: already started")
		return nil
	}

	spec := fmt.Sprintf("%d %d * * *", s.minute, s.hour)
	entryID, err := s.runner.AddFunc(spec, s.fireScheduled)
	if err != nil {
		return fmt.Errorf("failed to register trigger %q: %w", spec, err)
	}
	s.entryID = entryID
	s.armed = true
	s.runner.Start()
	log.Printf("scheduler: armed daily trigger at %02d:%02d (%s)", s.hour, s.minute, s.loc)
	return nil
}

// Stop disarms the trigger. It never interrupts a run already in
// flight, and stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		log.Printf("scheduler: already stopped")
		return
	}
	s.runner.Remove(s.entryID)
	s.armed = false
	log.Printf("scheduler: trigger disarmed")
}

// TriggerManual fires the pipeline on behalf of a caller. Unlike a
// scheduled firing it fails loudly with model.ErrPipelineRunning when
// gated; otherwise it returns the recorded outcome, success or not.
func (s *Scheduler) TriggerManual(ctx context.Context) (model.RunOutcome, error) {
	if !s.acquire() {
		return model.RunOutcome{}, model.ErrPipelineRunning
	}
	return s.run(ctx, model.TriggerManual), nil
}

// Status is a pure read of the scheduler state, with a capped view of
// the most recent outcomes.
func (s *Scheduler) Status() model.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := statusHistoryLimit
	if limit > len(s.history) {
		limit = len(s.history)
	}
	history := make([]model.RunOutcome, limit)
	copy(history, s.history[:limit])

	status := model.SchedulerStatus{
		Armed:     s.armed,
		Executing: s.executing,
		History:   history,
	}
	if s.armed {
		next := s.nextOccurrence(time.Now().In(s.loc))
		status.NextRun = &next
	}
	return status
}

// History returns a copy of the full bounded history, newest first.
func (s *Scheduler) History() []model.RunOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := make([]model.RunOutcome, len(s.history))
	copy(history, s.history)
	return history
}

// fireScheduled is the cron callback. A gated firing is skipped
// silently; a human caller gets explicit feedback via TriggerManual
// instead.
func (s *Scheduler) fireScheduled() {
	if !s.acquire() {
		log.Printf("scheduler: run already in progress, skipping scheduled firing")
		return
	}
	s.run(context.Background(), model.TriggerScheduled)
}

// run executes one firing. The gate must already be held; it is
// released on every exit path. Every firing, successful or not,
// resolves to exactly one recorded outcome.
func (s *Scheduler) run(ctx context.Context, trigger string) model.RunOutcome {
	defer s.release()

	start := time.Now()
	result, err := s.pipeline.RunOnce(ctx)

	outcome := model.RunOutcome{
		Timestamp:   start.UTC(),
		DurationMs:  time.Since(start).Milliseconds(),
		TriggerType: trigger,
	}
	if err != nil {
		outcome.ErrorMessage = err.Error()
		log.Printf("scheduler: %s run failed: %v", trigger, err)
	} else {
		outcome.Success = true
		outcome.RecordsLoaded = result.Loaded
	}

	s.record(outcome)
	return outcome
}

// acquire takes the execution gate; false means a run is in flight.
func (s *Scheduler) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.executing {
		return false
	}
	s.executing = true
	return true
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.executing = false
	s.mu.Unlock()
}

// record prepends the outcome to the in-memory history, truncates to
// the cap and mirrors it to the durable sink.
func (s *Scheduler) record(outcome model.RunOutcome) {
	s.mu.Lock()
	s.history = append([]model.RunOutcome{outcome}, s.history...)
	if len(s.history) > s.historyCap {
		s.history = s.history[:s.historyCap]
	}
	s.mu.Unlock()

	if s.sink != nil {
		if err := s.sink.SaveRunOutcome(outcome); err != nil {
			log.Printf("scheduler: failed to persist run outcome: %v", err)
		}
	}
}

// nextOccurrence returns the next daily hour:minute after now in the
// scheduler's timezone. Informational only; non-daily schedules are not
// accounted for.
func (s *Scheduler) nextOccurrence(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
