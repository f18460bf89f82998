// Package motor defines the actuator/sensor port every drivetrain and conveyor motor is driven
// through.
package motor

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/utils"
)

// Direction is the commanded spin direction of a motor.
type Direction int

const (
	// Forward is the drive-forward / intake direction.
	Forward Direction = iota
	// Reverse is the opposite of Forward.
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Sign returns +1 for Forward and -1 for Reverse.
func (d Direction) Sign() float64 {
	if d == Reverse {
		return -1
	}
	return 1
}

// BrakeMode selects how a motor behaves once stopped.
type BrakeMode int

const (
	// Coast lets the motor spin down freely.
	Coast BrakeMode = iota
	// Brake shorts the windings to slow the motor quickly.
	Brake
	// Hold actively holds the current position.
	Hold
)

func (b BrakeMode) String() string {
	switch b {
	case Coast:
		return "coast"
	case Brake:
		return "brake"
	case Hold:
		return "hold"
	default:
		return fmt.Sprintf("BrakeMode(%d)", int(b))
	}
}

// A Motor is one actuator/sensor port. Implementations are expected to return a value from every
// read, even if it is stale.
type Motor interface {
	// Name identifies the port in logs and errors.
	Name() string

	// Spin runs the motor in dir at pct percent of full output. pct is a magnitude in [0, 100].
	Spin(ctx context.Context, dir Direction, pct float64) error

	// Stop stops the motor using the given brake mode.
	Stop(ctx context.Context, mode BrakeMode) error

	// PositionDegrees returns accumulated shaft rotation in degrees since the last reset.
	PositionDegrees(ctx context.Context) (float64, error)

	// ResetPosition zeroes the accumulated rotation.
	ResetPosition(ctx context.Context) error

	// VelocityRPM returns the instantaneous angular velocity.
	VelocityRPM(ctx context.Context) (float64, error)

	// CurrentAmps returns the instantaneous current draw.
	CurrentAmps(ctx context.Context) (float64, error)
}

// SpinSigned commands m with a signed percentage, mapping the sign to a direction and clamping
// the magnitude to 100.
func SpinSigned(ctx context.Context, m Motor, pct float64) error {
	pct = utils.ClampSignedPercent(pct)
	dir := Forward
	if pct < 0 {
		dir = Reverse
	}
	return m.Spin(ctx, dir, math.Abs(pct))
}

// Group is a set of motors commanded together, like one side of a drivetrain.
type Group []Motor

// SpinSigned commands every motor in the group with the same signed percentage.
func (g Group) SpinSigned(ctx context.Context, pct float64) error {
	var err error
	for _, m := range g {
		err = multierr.Combine(err, NewPortCommandError(SpinSigned(ctx, m, pct), m.Name()))
	}
	return err
}

// Stop stops every motor in the group.
func (g Group) Stop(ctx context.Context, mode BrakeMode) error {
	var err error
	for _, m := range g {
		err = multierr.Combine(err, NewPortCommandError(m.Stop(ctx, mode), m.Name()))
	}
	return err
}

// ResetPosition zeroes every motor in the group.
func (g Group) ResetPosition(ctx context.Context) error {
	var err error
	for _, m := range g {
		err = multierr.Combine(err, NewPortCommandError(m.ResetPosition(ctx), m.Name()))
	}
	return err
}
