package workflow

import (
	"context"
	"time"

	"github.com/goliatone/go-formflow/pkg/validation"
)

// State is a step of a submission attempt.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateRejected   State = "rejected"
)

func (s State) String() string {
	return string(s)
}

// Transition is reported to observers each time an attempt changes state.
type Transition struct {
	FormID    string
	AttemptID string
	From      State
	To        State
	At        time.Time
}

// Observer receives transitions. It runs while the workflow holds its lock
// and must not call back into the workflow.
type Observer func(Transition)

// Outcome is the final result of an attempt.
type Outcome struct {
	State  State              `json:"state"`
	Issues []validation.Issue `json:"issues,omitempty"`
	Err    error              `json:"-"`
}

// Attempt tracks one submission. Rejected-by-validation attempts are
// finished when Submit returns; others finish once the Submitter does.
type Attempt struct {
	ID     string
	FormID string

	done    chan struct{}
	outcome Outcome
}

func newAttempt(id, formID string) *Attempt {
	return &Attempt{ID: id, FormID: formID, done: make(chan struct{})}
}

// Done is closed when the attempt reaches Completed or Rejected.
func (a *Attempt) Done() <-chan struct{} {
	return a.done
}

// Outcome returns the final outcome, or false while the attempt is running.
func (a *Attempt) Outcome() (Outcome, bool) {
	select {
	case <-a.done:
		return a.outcome, true
	default:
		return Outcome{State: StateSubmitting}, false
	}
}

// Wait blocks until the attempt finishes or ctx is done.
func (a *Attempt) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-a.done:
		return a.outcome, nil
	case <-ctx.Done():
		return Outcome{State: StateSubmitting}, ctx.Err()
	}
}

func (a *Attempt) finish(outcome Outcome) {
	a.outcome = outcome
	close(a.done)
}
