// Package routine runs an autonomous routine: a named, ordered list of drivetrain, conveyor and
// maneuver steps. A step that times out is abandoned and the routine proceeds.
package routine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/maneuver"
)

// Env is everything a step may use. It is built fresh for every autonomous phase.
type Env struct {
	Clock     control.Clock
	Drive     *drivetrain.Drivetrain
	Maneuvers *maneuver.Maneuvers
	Conveyor  *conveyor.Controller
	// RunID tags the run's report and log entries. A new one is generated when unset.
	RunID     uuid.UUID
}

// Validate ensures env is complete.
func (env Env) Validate() error {
	if env.Clock == nil || env.Drive == nil || env.Maneuvers == nil || env.Conveyor == nil {
		return errors.New("routine environment is incomplete")
	}
	return nil
}

// A Routine is an ordered list of steps.
type Routine struct {
	Name  string
	Steps []Step
}

// New returns a routine running steps in order.
func New(name string, steps ...Step) *Routine {
	return &Routine{Name: name, Steps: steps}
}

// Result is what happened in one step.
type Result struct {
	Step    string
	Elapsed time.Duration
	// Outcome is set for steps that run a bounded loop.
	Outcome *control.Outcome
	Err     error
}

// TimedOut reports whether the step's loop gave up before reaching tolerance.
func (r Result) TimedOut() bool {
	return r.Outcome != nil && r.Outcome.Reason == control.ExitTimeout
}

// Report is the record of one routine run.
type Report struct {
	RunID     uuid.UUID
	Routine   string
	Results   []Result
	Elapsed   time.Duration
	// Completed is false when the run was canceled before its last step finished.
	Completed bool
}

// Summary aggregates step timings of a run.
type Summary struct {
	Steps    int
	TimedOut int
	Failed   int
	Mean     time.Duration
	Max      time.Duration
}

// Summary returns aggregate step statistics.
func (r Report) Summary() Summary {
	s := Summary{Steps: len(r.Results)}
	if len(r.Results) == 0 {
		return s
	}
	durations := make([]float64, 0, len(r.Results))
	for _, res := range r.Results {
		durations = append(durations, float64(res.Elapsed))
		if res.TimedOut() {
			s.TimedOut++
		}
		if res.Err != nil {
			s.Failed++
		}
	}
	if mean, err := stats.Mean(durations); err == nil {
		s.Mean = time.Duration(mean)
	}
	if maxDur, err := stats.Max(durations); err == nil {
		s.Max = time.Duration(maxDur)
	}
	return s
}

// Run executes every step in order. A step's port errors are logged and returned at the end but
// do not stop the routine; only the context ending does.
func (r *Routine) Run(ctx context.Context, env Env, logger logging.Logger) (Report, error) {
	if env.RunID == uuid.Nil {
		env.RunID = uuid.New()
	}
	report := Report{RunID: env.RunID, Routine: r.Name}
	if err := env.Validate(); err != nil {
		return report, err
	}
	logger = logger.WithFields("run_id", env.RunID.String())

	start := env.Clock.Now()
	logger.Infow("starting routine", "routine", r.Name, "steps", len(r.Steps))

	var errs error
	for i, step := range r.Steps {
		if err := ctx.Err(); err != nil {
			report.Elapsed = env.Clock.Since(start)
			return report, multierr.Combine(errs, err)
		}

		stepStart := env.Clock.Now()
		out, err := step.Run(ctx, env)
		res := Result{Step: step.Name, Elapsed: env.Clock.Since(stepStart), Outcome: out, Err: err}
		report.Results = append(report.Results, res)
		logStep(logger, i, res)

		if ctx.Err() != nil {
			report.Elapsed = env.Clock.Since(start)
			return report, multierr.Combine(errs, ctx.Err())
		}
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "step %d (%s)", i, step.Name))
		}
	}

	report.Elapsed = env.Clock.Since(start)
	report.Completed = true
	sum := report.Summary()
	logger.Infow("routine finished", "routine", r.Name, "elapsed", report.Elapsed,
		"timed_out", sum.TimedOut, "failed", sum.Failed, "mean_step", sum.Mean, "max_step", sum.Max)
	return report, errs
}

func logStep(logger logging.Logger, i int, res Result) {
	fields := []interface{}{"index", i, "step", res.Step, "elapsed", res.Elapsed}
	if res.Outcome != nil {
		fields = append(fields, "reason", res.Outcome.Reason.String(), "remaining_deg", res.Outcome.FinalError)
	}
	switch {
	case res.Err != nil:
		logger.Warnw("step had errors", append(fields, "error", res.Err)...)
	case res.TimedOut():
		logger.Infow("step timed out, continuing", fields...)
	default:
		logger.Debugw("step done", fields...)
	}
}
