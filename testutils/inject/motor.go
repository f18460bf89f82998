// Package inject provides dependency-injected versions of the motor port for testing.
package inject

import (
	"context"

	"github.com/sparkline-robotics/motioncore/components/motor"
)

// Motor is an injected motor. Any function left nil falls through to the embedded Motor.
type Motor struct {
	motor.Motor
	NameFunc            func() string
	SpinFunc            func(ctx context.Context, dir motor.Direction, pct float64) error
	StopFunc            func(ctx context.Context, mode motor.BrakeMode) error
	PositionDegreesFunc func(ctx context.Context) (float64, error)
	ResetPositionFunc   func(ctx context.Context) error
	VelocityRPMFunc     func(ctx context.Context) (float64, error)
	CurrentAmpsFunc     func(ctx context.Context) (float64, error)
}

// Name calls the injected Name or the real version.
func (m *Motor) Name() string {
	if m.NameFunc == nil {
		return m.Motor.Name()
	}
	return m.NameFunc()
}

// Spin calls the injected Spin or the real version.
func (m *Motor) Spin(ctx context.Context, dir motor.Direction, pct float64) error {
	if m.SpinFunc == nil {
		return m.Motor.Spin(ctx, dir, pct)
	}
	return m.SpinFunc(ctx, dir, pct)
}

// Stop calls the injected Stop or the real version.
func (m *Motor) Stop(ctx context.Context, mode motor.BrakeMode) error {
	if m.StopFunc == nil {
		return m.Motor.Stop(ctx, mode)
	}
	return m.StopFunc(ctx, mode)
}

// PositionDegrees calls the injected PositionDegrees or the real version.
func (m *Motor) PositionDegrees(ctx context.Context) (float64, error) {
	if m.PositionDegreesFunc == nil {
		return m.Motor.PositionDegrees(ctx)
	}
	return m.PositionDegreesFunc(ctx)
}

// ResetPosition calls the injected ResetPosition or the real version.
func (m *Motor) ResetPosition(ctx context.Context) error {
	if m.ResetPositionFunc == nil {
		return m.Motor.ResetPosition(ctx)
	}
	return m.ResetPositionFunc(ctx)
}

// VelocityRPM calls the injected VelocityRPM or the real version.
func (m *Motor) VelocityRPM(ctx context.Context) (float64, error) {
	if m.VelocityRPMFunc == nil {
		return m.Motor.VelocityRPM(ctx)
	}
	return m.VelocityRPMFunc(ctx)
}

// CurrentAmps calls the injected CurrentAmps or the real version.
func (m *Motor) CurrentAmps(ctx context.Context) (float64, error) {
	if m.CurrentAmpsFunc == nil {
		return m.Motor.CurrentAmps(ctx)
	}
	return m.CurrentAmpsFunc(ctx)
}
