package workflow

import (
	"context"
	"time"

	"github.com/goliatone/go-formflow/pkg/model"
)

// DefaultLatency is the simulated round trip of SimulatedSubmitter.
const DefaultLatency = 2 * time.Second

// Submitter delivers a validated form. Returning a *SubmissionError lets a
// backend report per-field problems.
type Submitter interface {
	Submit(ctx context.Context, form model.Form) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, form model.Form) error

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, form model.Form) error {
	return fn(ctx, form)
}

// SimulatedSubmitter performs no I/O; it waits for Latency and succeeds.
type SimulatedSubmitter struct {
	Latency time.Duration
}

// NewSimulatedSubmitter returns a submitter with the given latency. A
// non-positive latency selects DefaultLatency.
func NewSimulatedSubmitter(latency time.Duration) SimulatedSubmitter {
	if latency <= 0 {
		latency = DefaultLatency
	}
	return SimulatedSubmitter{Latency: latency}
}

// Submit implements Submitter.
func (s SimulatedSubmitter) Submit(ctx context.Context, _ model.Form) error {
	if s.Latency <= 0 {
		return nil
	}
	timer := time.NewTimer(s.Latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
