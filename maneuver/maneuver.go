// Package maneuver sequences the drivetrain and the conveyor into the composite moves an
// autonomous run is built from.
package maneuver

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
)

// Conveyor is the part of the conveyor controller a maneuver drives.
type Conveyor interface {
	SetMode(ctx context.Context, mode conveyor.Mode, pct float64) error
	UpdateAntiJam(ctx context.Context) error
}

var _ Conveyor = &conveyor.Controller{}

// Maneuvers runs composite moves on one drivetrain.
type Maneuvers struct {
	drive  *drivetrain.Drivetrain
	clock  control.Clock
	cfg    Config
	logger logging.Logger
}

// New returns the maneuvers for drive.
func New(drive *drivetrain.Drivetrain, clk control.Clock, cfg Config, logger logging.Logger) (*Maneuvers, error) {
	if drive == nil {
		return nil, errors.New("maneuvers need a drivetrain")
	}
	if clk == nil {
		return nil, errors.New("maneuvers need a clock")
	}
	if err := cfg.Validate("maneuver"); err != nil {
		return nil, err
	}
	return &Maneuvers{drive: drive, clock: clk, cfg: cfg, logger: logger}, nil
}

// Config returns the maneuver tuning.
func (m *Maneuvers) Config() Config {
	return m.cfg
}

// CollectWhileMoving runs the conveyor in Collect and drives mm at no more than speedPct,
// running the conveyor's anti-jam monitor on every drive tick. The drive has a fixed time
// budget. The conveyor is left collecting.
func (m *Maneuvers) CollectWhileMoving(
	ctx context.Context, conv Conveyor, mm, speedPct float64,
) (control.Outcome, error) {
	err := conv.SetMode(ctx, conveyor.Collect, m.cfg.CollectPct)
	out, driveErr := m.drive.DriveDistanceWithHook(ctx, mm, speedPct, m.cfg.CollectTimeout(), conv.UpdateAntiJam)
	m.logger.Debugw("collect while moving", "mm", mm, "speed_pct", speedPct, "reason", out.Reason.String())
	return out, multierr.Combine(err, driveErr)
}

// ScoreHighGoalCycle kills momentum, runs the conveyor in ScoreHigh at full output and waits
// settle for the transfer to finish. The conveyor is left scoring.
func (m *Maneuvers) ScoreHighGoalCycle(ctx context.Context, conv Conveyor, settle time.Duration) error {
	return m.scoreCycle(ctx, conv, conveyor.ScoreHigh, settle)
}

// ScoreMiddleGoalCycle is ScoreHighGoalCycle for the middle goal.
func (m *Maneuvers) ScoreMiddleGoalCycle(ctx context.Context, conv Conveyor, settle time.Duration) error {
	return m.scoreCycle(ctx, conv, conveyor.ScoreMiddle, settle)
}

func (m *Maneuvers) scoreCycle(ctx context.Context, conv Conveyor, mode conveyor.Mode, settle time.Duration) error {
	holdErr := m.drive.HoldBrief(ctx, m.cfg.Hold())
	if ctx.Err() != nil {
		return holdErr
	}
	err := conv.SetMode(ctx, mode, 100)
	m.logger.Debugw("scoring", "mode", mode.String(), "settle", settle)
	return multierr.Combine(holdErr, err, m.clock.Sleep(ctx, settle))
}
