package drivetrain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/components/motor/fake"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/testutils/inject"
)

type testRig struct {
	dt     *Drivetrain
	clk    *control.SimClock
	fakes  []*fake.Motor
	inject []*inject.Motor
}

// newTestRig builds a drivetrain over fake motors wrapped in injectors. The fakes integrate motion
// whenever the simulated clock advances.
func newTestRig(t *testing.T) *testRig {
	t.Helper()
	logger := logging.NewTestLogger(t)
	clk := control.NewSimClock()

	rig := &testRig{clk: clk}
	for _, name := range []string{"fl", "bl", "fr", "br"} {
		f := fake.NewMotor(name, logger)
		clk.OnAdvance(f.Advance)
		rig.fakes = append(rig.fakes, f)
		rig.inject = append(rig.inject, &inject.Motor{Motor: f})
	}

	dt, err := New(Ports{
		FrontLeft:  rig.inject[0],
		BackLeft:   rig.inject[1],
		FrontRight: rig.inject[2],
		BackRight:  rig.inject[3],
	}, DefaultConfig(), clk, logger)
	test.That(t, err, test.ShouldBeNil)
	rig.dt = dt
	return rig
}

// fixPositions makes every left motor report left degrees and every right motor report right.
func (r *testRig) fixPositions(left, right float64) {
	for i, m := range r.inject {
		pos := left
		if i >= 2 {
			pos = right
		}
		m.PositionDegreesFunc = func(ctx context.Context) (float64, error) { return pos, nil }
	}
}

func (r *testRig) requireStoppedWith(t *testing.T, mode motor.BrakeMode) {
	t.Helper()
	for _, f := range r.fakes {
		stopped, got := f.Stopped()
		test.That(t, stopped, test.ShouldBeTrue)
		test.That(t, got, test.ShouldEqual, mode)
	}
}

func spinCommands(f *fake.Motor) []float64 {
	var out []float64
	for _, c := range f.History() {
		if !c.Stopped {
			out = append(out, c.PowerPct)
		}
	}
	return out
}

func TestKinematics(t *testing.T) {
	kin := DefaultConfig().Kinematics()

	t.Run("round trip", func(t *testing.T) {
		for _, mm := range []float64{0.5, 1, 82.55, 360, 1000, 12345.678} {
			test.That(t, kin.WheelDegToMM(kin.MMToWheelDeg(mm)), test.ShouldAlmostEqual, mm, 1e-9)
		}
	})

	t.Run("one revolution", func(t *testing.T) {
		test.That(t, kin.MMToWheelDeg(kin.WheelCircumferenceMM()), test.ShouldAlmostEqual, 360.0)
		test.That(t, kin.MMToWheelDeg(-kin.WheelCircumferenceMM()), test.ShouldAlmostEqual, -360.0)
	})

	t.Run("turns", func(t *testing.T) {
		test.That(t, kin.TurnWheelDeg(0), test.ShouldEqual, 0.0)
		test.That(t, kin.TurnWheelDeg(90), test.ShouldAlmostEqual, kin.MMToWheelDeg(math.Pi*kin.TrackWidthMM/4))
		test.That(t, kin.TurnWheelDeg(-90), test.ShouldEqual, kin.TurnWheelDeg(90))
		test.That(t, kin.TurnArcMM(360), test.ShouldAlmostEqual, math.Pi*kin.TrackWidthMM)
	})
}

func TestNewValidation(t *testing.T) {
	logger := logging.NewTestLogger(t)
	m := fake.NewMotor("m", logger)

	_, err := New(Ports{FrontLeft: m, BackLeft: m, FrontRight: m}, DefaultConfig(), control.NewSimClock(), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "back_right")

	cfg := DefaultConfig()
	cfg.WheelDiameterMM = 0
	_, err = New(Ports{m, m, m, m}, cfg, control.NewSimClock(), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "wheel_diameter_mm")

	_, err = New(Ports{m, m, m, m}, DefaultConfig(), nil, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)
	test.That(t, cfg.Tick(), test.ShouldEqual, 10*time.Millisecond)

	cfg.TickMs = 0
	test.That(t, cfg.Validate("path").Error(), test.ShouldContainSubstring, "tick_ms")

	cfg = DefaultConfig()
	cfg.SyncKp = -1
	test.That(t, cfg.Validate("path"), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.MinTurnPct = 120
	test.That(t, cfg.Validate("path"), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.TurnToleranceDeg = 0
	test.That(t, cfg.Validate("path"), test.ShouldNotBeNil)
}

func TestDriveDistance(t *testing.T) {
	ctx := context.Background()

	t.Run("perfect feedback converges after one command", func(t *testing.T) {
		rig := newTestRig(t)
		target := rig.dt.Kinematics().MMToWheelDeg(360)

		commanded := false
		for _, m := range rig.inject {
			m := m
			m.PositionDegreesFunc = func(ctx context.Context) (float64, error) {
				if commanded {
					return target, nil
				}
				return 0, nil
			}
			m.SpinFunc = func(ctx context.Context, dir motor.Direction, pct float64) error {
				commanded = true
				return m.Motor.Spin(ctx, dir, pct)
			}
		}

		out, err := rig.dt.DriveDistance(ctx, 360, 50, 2000*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Reason, test.ShouldEqual, control.ExitTolerance)
		test.That(t, out.Ticks, test.ShouldEqual, 2)
		test.That(t, out.Elapsed, test.ShouldEqual, 10*time.Millisecond)

		for _, f := range rig.fakes {
			history := f.History()
			test.That(t, len(history), test.ShouldEqual, 2)
			// 0.12 * ~500 degrees saturates at the 50% cap
			test.That(t, history[0], test.ShouldResemble, fake.Command{PowerPct: 50})
			test.That(t, history[1], test.ShouldResemble, fake.Command{Stopped: true, Brake: motor.Brake})
		}
	})

	t.Run("simulated chassis reaches target", func(t *testing.T) {
		rig := newTestRig(t)
		out, err := rig.dt.DriveDistance(ctx, 500, DefaultDriveMaxPct, DefaultDriveTimeout)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Converged(), test.ShouldBeTrue)
		test.That(t, math.Abs(out.FinalError), test.ShouldBeLessThan, 8.0)

		left, right, err := rig.dt.SidePositions(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, (left+right)/2, test.ShouldAlmostEqual, rig.dt.Kinematics().MMToWheelDeg(500), 8)
		rig.requireStoppedWith(t, motor.Brake)
	})

	t.Run("backwards", func(t *testing.T) {
		rig := newTestRig(t)
		out, err := rig.dt.DriveDistance(ctx, -250, 50, DefaultDriveTimeout)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Converged(), test.ShouldBeTrue)

		left, right, err := rig.dt.SidePositions(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, left, test.ShouldBeLessThan, 0.0)
		test.That(t, right, test.ShouldBeLessThan, 0.0)
		for _, pct := range spinCommands(rig.fakes[0]) {
			test.That(t, pct, test.ShouldBeLessThan, 0.0)
		}
	})

	t.Run("encoders reset at start", func(t *testing.T) {
		rig := newTestRig(t)
		for _, f := range rig.fakes {
			f.SetPosition(5000)
		}
		out, err := rig.dt.DriveDistance(ctx, 100, 50, DefaultDriveTimeout)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Converged(), test.ShouldBeTrue)
		left, _, err := rig.dt.SidePositions(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, left, test.ShouldBeLessThan, 1000.0)
	})

	t.Run("timeout when stalled", func(t *testing.T) {
		rig := newTestRig(t)
		for _, f := range rig.fakes {
			f.SetStalled(true)
		}
		out, err := rig.dt.DriveDistance(ctx, 500, 70, 300*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Reason, test.ShouldEqual, control.ExitTimeout)
		test.That(t, out.Ticks, test.ShouldEqual, 30)
		test.That(t, out.Elapsed, test.ShouldEqual, 300*time.Millisecond)
		rig.requireStoppedWith(t, motor.Brake)
	})

	t.Run("sync term slows the leading side", func(t *testing.T) {
		rig := newTestRig(t)
		rig.fixPositions(100, 50)

		// a timeout of one tick runs the step exactly once
		out, err := rig.dt.DriveDistance(ctx, 1000, 50, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Reason, test.ShouldEqual, control.ExitTimeout)
		test.That(t, out.Ticks, test.ShouldEqual, 1)

		test.That(t, spinCommands(rig.fakes[0])[0], test.ShouldAlmostEqual, 46.0)
		test.That(t, spinCommands(rig.fakes[1])[0], test.ShouldAlmostEqual, 46.0)
		test.That(t, spinCommands(rig.fakes[2])[0], test.ShouldAlmostEqual, 54.0)
		test.That(t, spinCommands(rig.fakes[3])[0], test.ShouldAlmostEqual, 54.0)
	})

	t.Run("floor keeps sign", func(t *testing.T) {
		rig := newTestRig(t)
		target := rig.dt.Kinematics().MMToWheelDeg(300)
		rig.fixPositions(target-20, target-20)
		_, err := rig.dt.DriveDistance(ctx, 300, 50, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spinCommands(rig.fakes[0])[0], test.ShouldAlmostEqual, 14.0)

		rig = newTestRig(t)
		rig.fixPositions(target+20, target+20)
		_, err = rig.dt.DriveDistance(ctx, 300, 50, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spinCommands(rig.fakes[2])[0], test.ShouldAlmostEqual, -14.0)
	})

	t.Run("port read failure degrades", func(t *testing.T) {
		rig := newTestRig(t)
		rig.inject[0].PositionDegreesFunc = func(ctx context.Context) (float64, error) {
			return 0, errors.New("no response")
		}
		out, err := rig.dt.DriveDistance(ctx, 300, 50, 1500*time.Millisecond)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "fl")
		test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 1)
		test.That(t, out.Ticks, test.ShouldBeGreaterThan, 1)
		rig.requireStoppedWith(t, motor.Brake)
	})

	t.Run("canceled", func(t *testing.T) {
		rig := newTestRig(t)
		cancelCtx, cancel := context.WithCancel(ctx)
		ticks := 0
		out, err := rig.dt.DriveDistanceWithHook(cancelCtx, 1000, 50, DefaultDriveTimeout, func(ctx context.Context) error {
			ticks++
			if ticks == 3 {
				cancel()
			}
			return nil
		})
		test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
		test.That(t, out.Reason, test.ShouldEqual, control.ExitCanceled)
		test.That(t, out.Ticks, test.ShouldEqual, 3)
		rig.requireStoppedWith(t, motor.Brake)
	})
}

func TestTurnToAngle(t *testing.T) {
	ctx := context.Background()

	t.Run("opposite commands clamped to the cap", func(t *testing.T) {
		rig := newTestRig(t)
		rig.fixPositions(0, 0)
		out, err := rig.dt.TurnToAngle(ctx, 90, 55, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.FinalError, test.ShouldAlmostEqual, rig.dt.Kinematics().TurnWheelDeg(90))

		test.That(t, spinCommands(rig.fakes[0])[0], test.ShouldEqual, 55.0)
		test.That(t, spinCommands(rig.fakes[1])[0], test.ShouldEqual, 55.0)
		test.That(t, spinCommands(rig.fakes[2])[0], test.ShouldEqual, -55.0)
		test.That(t, spinCommands(rig.fakes[3])[0], test.ShouldEqual, -55.0)
	})

	t.Run("floor near target", func(t *testing.T) {
		rig := newTestRig(t)
		target := rig.dt.Kinematics().TurnWheelDeg(90)
		rig.fixPositions(target-20, -(target - 20))
		_, err := rig.dt.TurnToAngle(ctx, 90, 55, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spinCommands(rig.fakes[0])[0], test.ShouldEqual, 12.0)
		test.That(t, spinCommands(rig.fakes[2])[0], test.ShouldEqual, -12.0)
	})

	t.Run("left turn", func(t *testing.T) {
		rig := newTestRig(t)
		rig.fixPositions(0, 0)
		_, err := rig.dt.TurnToAngle(ctx, -45, 50, 10*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, spinCommands(rig.fakes[0])[0], test.ShouldBeLessThan, 0.0)
		test.That(t, spinCommands(rig.fakes[2])[0], test.ShouldBeGreaterThan, 0.0)
	})

	t.Run("simulated chassis turns until within tolerance", func(t *testing.T) {
		rig := newTestRig(t)
		out, err := rig.dt.TurnToAngle(ctx, 90, 55, 1800*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Converged(), test.ShouldBeTrue)
		test.That(t, out.FinalError, test.ShouldBeLessThan, 7.0)

		target := rig.dt.Kinematics().TurnWheelDeg(90)
		left, right, err := rig.dt.SidePositions(ctx)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, left, test.ShouldBeGreaterThan, target-7)
		test.That(t, right, test.ShouldBeLessThan, -(target - 7))
		for _, pct := range spinCommands(rig.fakes[0]) {
			test.That(t, pct, test.ShouldBeGreaterThanOrEqualTo, 12.0)
			test.That(t, pct, test.ShouldBeLessThanOrEqualTo, 55.0)
		}
		rig.requireStoppedWith(t, motor.Brake)
	})

	t.Run("zero angle requests no travel", func(t *testing.T) {
		rig := newTestRig(t)
		out, err := rig.dt.TurnToAngle(ctx, 0, 55, 1800*time.Millisecond)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.Reason, test.ShouldEqual, control.ExitTolerance)
		test.That(t, out.Ticks, test.ShouldEqual, 1)
		for _, f := range rig.fakes {
			test.That(t, len(spinCommands(f)), test.ShouldEqual, 0)
		}
		rig.requireStoppedWith(t, motor.Brake)
	})
}

func TestHoldBrief(t *testing.T) {
	rig := newTestRig(t)
	start := rig.clk.Now()

	test.That(t, rig.dt.HoldBrief(context.Background(), DefaultHold), test.ShouldBeNil)
	test.That(t, rig.clk.Since(start), test.ShouldEqual, DefaultHold)
	for _, f := range rig.fakes {
		test.That(t, f.History(), test.ShouldResemble, []fake.Command{
			{Stopped: true, Brake: motor.Hold},
			{Stopped: true, Brake: motor.Brake},
		})
	}
}
