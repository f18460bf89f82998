// Package control implements the bounded-time proportional loops the drivetrain and maneuvers
// run on, and the clock they are scheduled against.
package control

import (
	"context"
	"fmt"
	"time"
)

// ExitReason records why a bounded loop stopped.
type ExitReason int

const (
	// ExitTolerance means the loop error fell inside its tolerance.
	ExitTolerance ExitReason = iota
	// ExitTimeout means the time budget ran out first. The move is abandoned where it stopped.
	ExitTimeout
	// ExitCanceled means the context ended between ticks.
	ExitCanceled
)

func (r ExitReason) String() string {
	switch r {
	case ExitTolerance:
		return "tolerance"
	case ExitTimeout:
		return "timeout"
	case ExitCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("ExitReason(%d)", int(r))
	}
}

// Outcome describes a finished loop run.
type Outcome struct {
	Reason  ExitReason
	Elapsed time.Duration
	// Ticks is the number of times the step function ran.
	Ticks int
	// FinalError is the loop error reported by the last step.
	FinalError float64
}

// Converged reports whether the loop exited inside tolerance.
func (o Outcome) Converged() bool {
	return o.Reason == ExitTolerance
}

// Step runs one control tick. It returns the current loop error and whether that error is inside
// tolerance, in which case the loop ends without issuing further commands.
type Step func(ctx context.Context, elapsed time.Duration) (loopErr float64, done bool)

// Loop runs a step function every Tick until it converges, its timeout elapses, or the context
// ends.
type Loop struct {
	Clock Clock
	Tick  time.Duration
}

// NewLoop returns a loop on the given clock and tick period.
func NewLoop(clk Clock, tick time.Duration) Loop {
	return Loop{Clock: clk, Tick: tick}
}

// Run executes step until it reports done or timeout elapses. The returned error is only
// non-nil when the context ended.
func (l Loop) Run(ctx context.Context, timeout time.Duration, step Step) (Outcome, error) {
	start := l.Clock.Now()
	var out Outcome
	for {
		elapsed := l.Clock.Since(start)
		if elapsed >= timeout {
			out.Reason = ExitTimeout
			out.Elapsed = elapsed
			return out, nil
		}

		loopErr, done := step(ctx, elapsed)
		out.Ticks++
		out.FinalError = loopErr
		if done {
			out.Reason = ExitTolerance
			out.Elapsed = l.Clock.Since(start)
			return out, nil
		}

		if err := l.Clock.Sleep(ctx, l.Tick); err != nil {
			out.Reason = ExitCanceled
			out.Elapsed = l.Clock.Since(start)
			return out, err
		}
	}
}
