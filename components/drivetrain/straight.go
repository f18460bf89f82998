package drivetrain

import (
	"context"
	"math"
	"time"

	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/control"
)

// TickHook runs once per converging tick of a straight move, right after the drive command is
// issued.
type TickHook func(ctx context.Context) error

// DriveDistance drives mm millimetres (negative is backwards) at no more than maxPct percent
// output, giving up after timeout. The drivetrain is always left stopped with brake. Timing out
// is not an error; check the returned Outcome. The error combines any port failures seen during
// the move and the context error if the move was canceled.
func (d *Drivetrain) DriveDistance(
	ctx context.Context, mm, maxPct float64, timeout time.Duration,
) (control.Outcome, error) {
	return d.DriveDistanceWithHook(ctx, mm, maxPct, timeout, nil)
}

// DriveDistanceWithHook is DriveDistance with hook run on every converging tick.
func (d *Drivetrain) DriveDistanceWithHook(
	ctx context.Context, mm, maxPct float64, timeout time.Duration, hook TickHook,
) (control.Outcome, error) {
	faults := motor.NewFaultLog(d.logger)
	faults.Add(d.ResetEncoders(ctx))

	target := d.kin.MMToWheelDeg(mm)
	drive := control.Proportional{Kp: d.cfg.DriveKp}
	sync := control.Proportional{Kp: d.cfg.SyncKp}
	d.logger.Debugw("drive distance", "mm", mm, "target_deg", target, "max_pct", maxPct, "timeout", timeout)

	out, ctxErr := d.loop.Run(ctx, timeout, func(ctx context.Context, elapsed time.Duration) (float64, bool) {
		left, right, err := d.SidePositions(ctx)
		faults.Add(err)

		loopErr := target - (left+right)/2
		if math.Abs(loopErr) < d.cfg.DriveToleranceDeg {
			return loopErr, true
		}

		// positive when the left side is ahead of the right
		correction := sync.Output(left - right)
		cmd := control.SaturateWithFloor(drive.Output(loopErr), maxPct, d.cfg.MinDrivePct)
		faults.Add(d.SetPercent(ctx, cmd-correction, cmd+correction))

		if hook != nil {
			faults.Add(hook(ctx))
		}
		return loopErr, false
	})

	faults.Add(d.Stop(context.WithoutCancel(ctx), motor.Brake))
	d.logFinish("drive distance", out)
	return out, multierr.Combine(ctxErr, faults.Err())
}
