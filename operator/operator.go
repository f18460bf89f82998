// Package operator runs the driver-control phase: tank drive straight from the operator's axes
// and conveyor modes from held buttons, with the anti-jam monitor running every tick.
package operator

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	mcutils "github.com/sparkline-robotics/motioncore/utils"
)

// SelectMode returns the conveyor command for the first held button in bindings, or Off at zero
// when none is held.
func SelectMode(inputs Inputs, bindings []ModeBinding) conveyor.Command {
	for _, b := range bindings {
		if inputs.Pressed(b.Button) {
			return b.Command
		}
	}
	return conveyor.Command{Mode: conveyor.Off, Percent: 0}
}

// A Loop is one driver-control phase.
type Loop struct {
	drive    *drivetrain.Drivetrain
	conv     *conveyor.Controller
	inputs   Inputs
	cfg      Config
	bindings []ModeBinding
	clock    control.Clock
	logger   logging.Logger

	faults *motor.FaultLog
}

// NewLoop returns a driver-control loop over drive and conv.
func NewLoop(
	drive *drivetrain.Drivetrain,
	conv *conveyor.Controller,
	inputs Inputs,
	cfg Config,
	clk control.Clock,
	logger logging.Logger,
) (*Loop, error) {
	if drive == nil || conv == nil || inputs == nil || clk == nil {
		return nil, errors.New("driver control needs a drivetrain, a conveyor, inputs and a clock")
	}
	if err := cfg.Validate("driver_control"); err != nil {
		return nil, err
	}
	bindings, err := cfg.ModeBindings("driver_control")
	if err != nil {
		return nil, err
	}
	return &Loop{
		drive:    drive,
		conv:     conv,
		inputs:   inputs,
		cfg:      cfg,
		bindings: bindings,
		clock:    clk,
		logger:   logger,
		faults:   motor.NewFaultLog(logger),
	}, nil
}

// Tick samples the inputs once and applies them. The anti-jam monitor runs after the conveyor
// mode is applied.
func (l *Loop) Tick(ctx context.Context) error {
	left := mcutils.ClampSignedPercent(l.inputs.LeftAxis())
	right := mcutils.ClampSignedPercent(l.inputs.RightAxis())
	err := l.drive.SetPercent(ctx, left, right)

	cmd := SelectMode(l.inputs, l.bindings)
	return multierr.Combine(err, l.conv.SetMode(ctx, cmd.Mode, cmd.Percent), l.conv.UpdateAntiJam(ctx))
}

// Run ticks until ctx ends, then stops the drivetrain with brake. Port errors do not end the
// loop; every distinct one seen is returned.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Infow("driver control started", "tick", l.cfg.Tick())
	for {
		l.faults.Add(l.Tick(ctx))
		if err := l.clock.Sleep(ctx, l.cfg.Tick()); err != nil {
			break
		}
	}
	l.faults.Add(l.drive.Stop(context.WithoutCancel(ctx), motor.Brake))
	l.logger.Infow("driver control ended")
	return l.faults.Err()
}
