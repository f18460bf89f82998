// Package robot wires the control core to a set of motor ports and exposes the two entry points a
// host scheduler calls: the autonomous phase and the driver-control phase.
package robot

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/config"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/maneuver"
	"github.com/sparkline-robotics/motioncore/operator"
	"github.com/sparkline-robotics/motioncore/routine"
)

// ErrPhaseRunning is returned when a phase is started while another is still running.
var ErrPhaseRunning = errors.New("a control phase is already running")

// PortSet is every motor port the control core drives.
type PortSet struct {
	Drive    drivetrain.Ports
	Conveyor conveyor.Ports
}

// Validate ensures every port is present.
func (p PortSet) Validate() error {
	if err := p.Drive.Validate(); err != nil {
		return err
	}
	return p.Conveyor.Validate()
}

// A Robot runs control phases against one port set. Only one phase may run at a time.
type Robot struct {
	ports  PortSet
	cfg    *config.Config
	clock  control.Clock
	logger logging.Logger

	drive     *drivetrain.Drivetrain
	maneuvers *maneuver.Maneuvers

	phaseMu sync.Mutex
}

// New returns a robot driving ports. A nil cfg means the default configuration.
func New(ports PortSet, cfg *config.Config, clk control.Clock, logger logging.Logger) (*Robot, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		return nil, errors.New("robot needs a clock")
	}
	logger.SetLevel(cfg.Level())

	drive, err := drivetrain.New(ports.Drive, cfg.Drivetrain, clk, logger.Sublogger("drivetrain"))
	if err != nil {
		return nil, err
	}
	maneuvers, err := maneuver.New(drive, clk, cfg.Maneuver, logger.Sublogger("maneuver"))
	if err != nil {
		return nil, err
	}
	return &Robot{
		ports:     ports,
		cfg:       cfg,
		clock:     clk,
		logger:    logger,
		drive:     drive,
		maneuvers: maneuvers,
	}, nil
}

// Drivetrain returns the robot's drivetrain.
func (r *Robot) Drivetrain() *drivetrain.Drivetrain {
	return r.drive
}

// newConveyor builds the conveyor controller for one phase. Controllers never outlive their
// phase, so no jam or mode state carries over.
func (r *Robot) newConveyor(runID uuid.UUID) (*conveyor.Controller, error) {
	logger := r.logger.Sublogger("conveyor").WithFields("run_id", runID.String())
	return conveyor.New(r.ports.Conveyor, r.cfg.Conveyor, r.clock, logger)
}

// RunAutonomous runs rt, or the configured autonomous routine when rt is nil. The conveyor is
// stopped when the phase ends, however it ends. The report and the phase's log entries share a
// fresh run ID.
func (r *Robot) RunAutonomous(ctx context.Context, rt *routine.Routine) (routine.Report, error) {
	if !r.phaseMu.TryLock() {
		return routine.Report{}, ErrPhaseRunning
	}
	defer r.phaseMu.Unlock()

	if rt == nil {
		if r.cfg.Autonomous == nil {
			return routine.Report{}, errors.New("no autonomous routine given or configured")
		}
		var err error
		rt, err = r.cfg.Autonomous.Build(r.cfg.Maneuver.Settle())
		if err != nil {
			return routine.Report{}, err
		}
	}

	runID := uuid.New()
	conv, err := r.newConveyor(runID)
	if err != nil {
		return routine.Report{}, err
	}
	env := routine.Env{Clock: r.clock, Drive: r.drive, Maneuvers: r.maneuvers, Conveyor: conv, RunID: runID}
	report, err := rt.Run(ctx, env, r.logger.Sublogger("autonomous"))
	return report, multierr.Combine(err, r.endPhase(ctx, conv))
}

// RunDriverControl runs the driver-control loop on inputs until ctx ends. Log entries of the phase
// carry a fresh run_id.
func (r *Robot) RunDriverControl(ctx context.Context, inputs operator.Inputs) error {
	if !r.phaseMu.TryLock() {
		return ErrPhaseRunning
	}
	defer r.phaseMu.Unlock()

	runID := uuid.New()
	conv, err := r.newConveyor(runID)
	if err != nil {
		return err
	}
	logger := r.logger.Sublogger("driver_control").WithFields("run_id", runID.String())
	loop, err := operator.NewLoop(r.drive, conv, inputs, r.cfg.DriverControl, r.clock, logger)
	if err != nil {
		return err
	}
	return multierr.Combine(loop.Run(ctx), r.endPhase(ctx, conv))
}

func (r *Robot) endPhase(ctx context.Context, conv *conveyor.Controller) error {
	ctx = context.WithoutCancel(ctx)
	return multierr.Combine(conv.Stop(ctx), r.drive.Stop(ctx, motor.Brake))
}
