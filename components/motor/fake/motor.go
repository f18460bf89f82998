// Package fake implements a simulated motor.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/utils"
)

const (
	defaultMaxRPM       = 200
	defaultFreeCurrent  = 0.6
	defaultStallCurrent = 2.5
)

var _ motor.Motor = &Motor{}

// Command is one entry of a fake motor's command history.
type Command struct {
	// PowerPct is the signed output; zero for stop commands.
	PowerPct float64
	Stopped  bool
	Brake    motor.BrakeMode
}

// A Motor pretends to be a motor port. Commands are recorded, and Advance integrates a simple
// first-order model: velocity follows the commanded power instantly and position integrates
// velocity. A stalled motor reports zero velocity and stall current regardless of power.
type Motor struct {
	name   string
	logger logging.Logger

	MaxRPM       float64
	FreeCurrent  float64
	StallCurrent float64

	mu          sync.Mutex
	powerPct    float64
	stopped     bool
	brake       motor.BrakeMode
	positionDeg float64
	velocityRPM float64
	currentAmps float64
	stalled     bool
	history     []Command
}

// NewMotor returns a stopped fake motor with default characteristics.
func NewMotor(name string, logger logging.Logger) *Motor {
	return &Motor{
		name:         name,
		logger:       logger,
		MaxRPM:       defaultMaxRPM,
		FreeCurrent:  defaultFreeCurrent,
		StallCurrent: defaultStallCurrent,
		stopped:      true,
		brake:        motor.Coast,
	}
}

// Name returns the port name.
func (m *Motor) Name() string {
	return m.name
}

// Spin sets the commanded power.
func (m *Motor) Spin(ctx context.Context, dir motor.Direction, pct float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.powerPct = dir.Sign() * utils.ClampPercent(pct)
	m.stopped = false
	m.history = append(m.history, Command{PowerPct: m.powerPct})
	m.logger.Debugf("Motor %s Spin %s %.2f", m.name, dir, pct)
	return nil
}

// Stop has the motor pretend to be off.
func (m *Motor) Stop(ctx context.Context, mode motor.BrakeMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.powerPct = 0
	m.stopped = true
	m.brake = mode
	m.history = append(m.history, Command{Stopped: true, Brake: mode})
	m.logger.Debugf("Motor %s Stopped (%s)", m.name, mode)
	return nil
}

// PositionDegrees returns the simulated shaft position.
func (m *Motor) PositionDegrees(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionDeg, nil
}

// ResetPosition zeroes the simulated shaft position.
func (m *Motor) ResetPosition(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionDeg = 0
	return nil
}

// VelocityRPM returns the simulated velocity.
func (m *Motor) VelocityRPM(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.velocityRPM, nil
}

// CurrentAmps returns the simulated current draw.
func (m *Motor) CurrentAmps(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentAmps, nil
}

// Advance integrates the motor model over dt.
func (m *Motor) Advance(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stalled {
		m.velocityRPM = 0
		m.currentAmps = m.StallCurrent
		return
	}
	m.velocityRPM = m.MaxRPM * m.powerPct / 100
	m.currentAmps = m.FreeCurrent * math.Abs(m.powerPct) / 100
	// rpm -> degrees per second is a factor of 6.
	m.positionDeg += m.velocityRPM * 6 * dt.Seconds()
}

// SetStalled makes the motor behave as if mechanically jammed until cleared.
func (m *Motor) SetStalled(stalled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stalled = stalled
	if stalled {
		m.velocityRPM = 0
		m.currentAmps = m.StallCurrent
	}
}

// SetPosition overrides the simulated shaft position.
func (m *Motor) SetPosition(deg float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionDeg = deg
}

// SetFeedback overrides velocity and current until the next Advance.
func (m *Motor) SetFeedback(rpm, amps float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.velocityRPM = rpm
	m.currentAmps = amps
}

// PowerPct returns the signed commanded power.
func (m *Motor) PowerPct() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powerPct
}

// IsPowered returns if the motor is pretending to be on or not.
func (m *Motor) IsPowered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.stopped && math.Abs(m.powerPct) >= 0.005
}

// Stopped returns whether the last command was a stop, and its brake mode.
func (m *Motor) Stopped() (bool, motor.BrakeMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped, m.brake
}

// History returns a copy of every command received.
func (m *Motor) History() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.history))
	copy(out, m.history)
	return out
}

// LastCommand returns the most recent command, if any.
func (m *Motor) LastCommand() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Command{}, false
	}
	return m.history[len(m.history)-1], true
}

// ClearHistory forgets recorded commands.
func (m *Motor) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}
