// Package drivetrain implements encoder-only dead-reckoning moves for a four motor tank
// drivetrain: straight moves, in-place turns and a brief position hold.
package drivetrain

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	mcutils "github.com/sparkline-robotics/motioncore/utils"
)

// Ports are the four drive motors.
type Ports struct {
	FrontLeft  motor.Motor
	BackLeft   motor.Motor
	FrontRight motor.Motor
	BackRight  motor.Motor
}

// Validate ensures every port is present.
func (p Ports) Validate() error {
	for _, port := range []struct {
		name string
		m    motor.Motor
	}{
		{"front_left", p.FrontLeft},
		{"back_left", p.BackLeft},
		{"front_right", p.FrontRight},
		{"back_right", p.BackRight},
	} {
		if port.m == nil {
			return mcutils.NewMissingPortError("drivetrain", port.name)
		}
	}
	return nil
}

// A Drivetrain owns the drive motors for the length of a control phase. Only one control loop may
// use it at a time.
type Drivetrain struct {
	cfg    Config
	kin    Kinematics
	clock  control.Clock
	loop   control.Loop
	logger logging.Logger

	left  motor.Group
	right motor.Group
	all   motor.Group

	// last good position reading per motor, in the order of all.
	lastPos []float64
}

// New returns a drivetrain driving the given ports.
func New(ports Ports, cfg Config, clk control.Clock, logger logging.Logger) (*Drivetrain, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate("drivetrain"); err != nil {
		return nil, err
	}
	if clk == nil {
		return nil, errors.New("drivetrain needs a clock")
	}

	d := &Drivetrain{
		cfg:    cfg,
		kin:    cfg.Kinematics(),
		clock:  clk,
		loop:   control.NewLoop(clk, cfg.Tick()),
		logger: logger,
		left:   motor.Group{ports.FrontLeft, ports.BackLeft},
		right:  motor.Group{ports.FrontRight, ports.BackRight},
	}
	d.all = append(d.all, d.left...)
	d.all = append(d.all, d.right...)
	d.lastPos = make([]float64, len(d.all))
	return d, nil
}

// Kinematics returns the geometry used to convert moves into wheel rotation.
func (d *Drivetrain) Kinematics() Kinematics {
	return d.kin
}

// Config returns the drivetrain's tuning.
func (d *Drivetrain) Config() Config {
	return d.cfg
}

// ResetEncoders zeroes both sides.
func (d *Drivetrain) ResetEncoders(ctx context.Context) error {
	for i := range d.lastPos {
		d.lastPos[i] = 0
	}
	return d.all.ResetPosition(ctx)
}

// SidePositions returns the average wheel rotation in degrees of the left and right sides. A
// motor whose read fails contributes its last good reading, and the read error is returned.
func (d *Drivetrain) SidePositions(ctx context.Context) (float64, float64, error) {
	var err error
	for i, m := range d.all {
		pos, readErr := m.PositionDegrees(ctx)
		if readErr != nil {
			err = multierr.Append(err, motor.NewPortReadError(readErr, m.Name(), "position"))
			continue
		}
		d.lastPos[i] = pos
	}
	nLeft := len(d.left)
	return mcutils.Average(d.lastPos[:nLeft]...), mcutils.Average(d.lastPos[nLeft:]...), err
}

// SetPercent commands signed percent output to the left and right sides.
func (d *Drivetrain) SetPercent(ctx context.Context, left, right float64) error {
	return multierr.Combine(d.left.SpinSigned(ctx, left), d.right.SpinSigned(ctx, right))
}

// Stop stops every drive motor with the given brake mode.
func (d *Drivetrain) Stop(ctx context.Context, mode motor.BrakeMode) error {
	return d.all.Stop(ctx, mode)
}

func (d *Drivetrain) logFinish(move string, out control.Outcome) {
	if out.Reason == control.ExitTimeout {
		d.logger.Infow(move+" timed out", "elapsed", out.Elapsed, "remaining_deg", out.FinalError)
		return
	}
	d.logger.Debugw(move+" finished", "reason", out.Reason.String(), "elapsed", out.Elapsed,
		"ticks", out.Ticks, "remaining_deg", out.FinalError)
}
