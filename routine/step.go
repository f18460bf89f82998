package routine

import (
	"context"
	"time"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/control"
)

// StepFunc performs one step. Steps that run a bounded loop return its outcome; others return nil.
type StepFunc func(ctx context.Context, env Env) (*control.Outcome, error)

// A Step is one named action of a routine.
type Step struct {
	Name string
	Run  StepFunc
}

func outcome(out control.Outcome, err error) (*control.Outcome, error) {
	return &out, err
}

// Drive drives mm millimetres straight.
func Drive(mm, maxPct float64, timeout time.Duration) Step {
	return Step{Name: "drive", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return outcome(env.Drive.DriveDistance(ctx, mm, maxPct, timeout))
	}}
}

// Turn turns deg degrees in place, positive to the right.
func Turn(deg, maxPct float64, timeout time.Duration) Step {
	return Step{Name: "turn", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return outcome(env.Drive.TurnToAngle(ctx, deg, maxPct, timeout))
	}}
}

// Collect drives mm millimetres while collecting.
func Collect(mm, speedPct float64) Step {
	return Step{Name: "collect", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return outcome(env.Maneuvers.CollectWhileMoving(ctx, env.Conveyor, mm, speedPct))
	}}
}

// ScoreHigh runs a high goal scoring cycle.
func ScoreHigh(settle time.Duration) Step {
	return Step{Name: "score_high", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Maneuvers.ScoreHighGoalCycle(ctx, env.Conveyor, settle)
	}}
}

// ScoreMiddle runs a middle goal scoring cycle.
func ScoreMiddle(settle time.Duration) Step {
	return Step{Name: "score_middle", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Maneuvers.ScoreMiddleGoalCycle(ctx, env.Conveyor, settle)
	}}
}

// Hold holds the drivetrain in place for d.
func Hold(d time.Duration) Step {
	return Step{Name: "hold", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Drive.HoldBrief(ctx, d)
	}}
}

// SetConveyor puts the conveyor in mode at pct.
func SetConveyor(mode conveyor.Mode, pct float64) Step {
	return Step{Name: "conveyor_" + mode.String(), Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Conveyor.SetMode(ctx, mode, pct)
	}}
}

// StopConveyor coasts the conveyor.
func StopConveyor() Step {
	return Step{Name: "stop_conveyor", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Conveyor.Stop(ctx)
	}}
}

// Wait does nothing for d.
func Wait(d time.Duration) Step {
	return Step{Name: "wait", Run: func(ctx context.Context, env Env) (*control.Outcome, error) {
		return nil, env.Clock.Sleep(ctx, d)
	}}
}
