// Package conveyor coordinates the four conveyor stages: discrete operating modes, each a fixed
// multi-motor actuation pattern, and an anti-jam monitor that briefly reverses a stalled
// conveyor before resuming the commanded mode.
package conveyor

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	mcutils "github.com/sparkline-robotics/motioncore/utils"
)

// percentTolerance is how close two percents must be for SetMode to treat them as unchanged.
const percentTolerance = 0.01

// Ports are the four conveyor stage motors.
type Ports struct {
	Bottom motor.Motor
	Middle motor.Motor
	Top1   motor.Motor
	Top2   motor.Motor
}

// Validate ensures every port is present.
func (p Ports) Validate() error {
	for _, port := range []struct {
		name string
		m    motor.Motor
	}{
		{"bottom", p.Bottom},
		{"middle", p.Middle},
		{"top_1", p.Top1},
		{"top_2", p.Top2},
	} {
		if port.m == nil {
			return mcutils.NewMissingPortError("conveyor", port.name)
		}
	}
	return nil
}

// Command is a mode run at a percent.
type Command struct {
	Mode    Mode
	Percent float64
}

// A Controller owns the conveyor stages for one control phase. The caller's command is kept as
// the baseline; while a jam is being cleared an override drives the stages instead, and the
// baseline is re-issued once the override ends. Callers must not command the stage motors
// directly while a Controller owns them.
type Controller struct {
	cfg    Config
	clock  control.Clock
	logger logging.Logger
	stages motor.Group

	baseline Command
	override *Command

	jamSince   time.Time
	unjamSince time.Time
}

// New returns a controller in mode Off. No stage is commanded until the first mode change.
func New(ports Ports, cfg Config, clk control.Clock, logger logging.Logger) (*Controller, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate("conveyor"); err != nil {
		return nil, err
	}
	if clk == nil {
		return nil, errors.New("conveyor needs a clock")
	}
	now := clk.Now()
	return &Controller{
		cfg:        cfg,
		clock:      clk,
		logger:     logger,
		stages:     motor.Group{ports.Bottom, ports.Middle, ports.Top1, ports.Top2},
		baseline:   Command{Mode: Off, Percent: 100},
		jamSince:   now,
		unjamSince: now,
	}, nil
}

// Mode returns the baseline mode.
func (c *Controller) Mode() Mode {
	return c.baseline.Mode
}

// Percent returns the baseline percent.
func (c *Controller) Percent() float64 {
	return c.baseline.Percent
}

// AntiJamActive reports whether a jam is being cleared.
func (c *Controller) AntiJamActive() bool {
	return c.override != nil
}

// Effective returns the command currently driving the stages.
func (c *Controller) Effective() Command {
	if c.override != nil {
		return *c.override
	}
	return c.baseline
}

// SetMode makes (mode, pct) the baseline and actuates it, cancelling any jam recovery in
// progress. pct is clamped to [0, 100]. Repeating the current baseline does nothing.
func (c *Controller) SetMode(ctx context.Context, mode Mode, pct float64) error {
	pct = mcutils.ClampPercent(pct)
	if mode == c.baseline.Mode && math.Abs(pct-c.baseline.Percent) < percentTolerance {
		return nil
	}

	c.baseline = Command{Mode: mode, Percent: pct}
	c.override = nil
	now := c.clock.Now()
	c.jamSince = now
	c.unjamSince = now
	c.logger.Debugw("conveyor mode", "mode", mode.String(), "pct", pct)
	return c.actuate(ctx)
}

// SetModeFull is SetMode at 100 percent.
func (c *Controller) SetModeFull(ctx context.Context, mode Mode) error {
	return c.SetMode(ctx, mode, 100)
}

// Stop coasts every stage.
func (c *Controller) Stop(ctx context.Context) error {
	return c.SetMode(ctx, Off, 0)
}

// UpdateAntiJam runs one pass of the jam monitor and must be called every 10 to 20 ms while a
// jam-protected mode is active. A failed feedback read counts as no jam for this pass and the
// read error is returned.
func (c *Controller) UpdateAntiJam(ctx context.Context) error {
	if !c.baseline.Mode.JamProtected() {
		return nil
	}
	now := c.clock.Now()

	if c.override != nil {
		if now.Sub(c.unjamSince) < c.cfg.RecoveryTime() {
			return nil
		}
		c.override = nil
		c.jamSince = now
		c.logger.Infow("conveyor jam cleared, resuming", "mode", c.baseline.Mode.String(), "pct", c.baseline.Percent)
		return c.actuate(ctx)
	}

	jammed, err := c.jamSignature(ctx)
	if !jammed {
		c.jamSince = now
		return err
	}
	if now.Sub(c.jamSince) < c.cfg.DetectWindow() {
		return nil
	}

	c.override = &Command{Mode: ReversePurge, Percent: c.cfg.UnjamPct}
	c.unjamSince = now
	c.logger.Infow("conveyor jam detected, reversing",
		"mode", c.baseline.Mode.String(), "after", now.Sub(c.jamSince), "pct", c.cfg.UnjamPct)
	return c.actuate(ctx)
}

func (c *Controller) jamSignature(ctx context.Context) (bool, error) {
	bottom := c.stages[0]
	rpm, err := bottom.VelocityRPM(ctx)
	if err != nil {
		return false, motor.NewPortReadError(err, bottom.Name(), "velocity")
	}
	amps, err := bottom.CurrentAmps(ctx)
	if err != nil {
		return false, motor.NewPortReadError(err, bottom.Name(), "current")
	}
	return math.Abs(rpm) < c.cfg.JamVelocityRPM && amps > c.cfg.JamCurrentAmps, nil
}

// actuate drives every stage with the effective command.
func (c *Controller) actuate(ctx context.Context) error {
	cmd := c.Effective()
	pattern, ok := PatternFor(cmd.Mode)
	if !ok {
		c.logger.Warnw("no actuation pattern, coasting", "mode", cmd.Mode.String())
	}
	if pattern.Coast {
		return c.stages.Stop(ctx, motor.Coast)
	}

	var err error
	for i, pct := range pattern.SignedPercents(cmd.Percent) {
		m := c.stages[i]
		err = multierr.Append(err, motor.NewPortCommandError(motor.SpinSigned(ctx, m, pct), m.Name()))
	}
	return err
}
