package drivetrain

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/motor"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/utils"
)

// TurnToAngle rotates the chassis in place by deg degrees (positive turns right), at no more than
// maxPct percent output, giving up after timeout. Progress is measured from absolute wheel travel
// on both sides, so the command magnitude is never negative; the turn direction only decides which
// side runs forward. The drivetrain is always left stopped with brake.
func (d *Drivetrain) TurnToAngle(
	ctx context.Context, deg, maxPct float64, timeout time.Duration,
) (control.Outcome, error) {
	faults := motor.NewFaultLog(d.logger)
	faults.Add(d.ResetEncoders(ctx))

	target := d.kin.TurnWheelDeg(deg)
	dir := utils.Sign(deg)
	turn := control.Proportional{Kp: d.cfg.TurnKp}
	d.logger.Debugw("turn to angle", "deg", deg, "target_deg", target, "max_pct", maxPct, "timeout", timeout)

	out, ctxErr := d.loop.Run(ctx, timeout, func(ctx context.Context, elapsed time.Duration) (float64, bool) {
		left, right, err := d.SidePositions(ctx)
		faults.Add(err)

		loopErr := target - utils.Average(utils.AbsAll(left, right)...)
		if loopErr < d.cfg.TurnToleranceDeg {
			return loopErr, true
		}

		cmd := control.ClampMagnitude(turn.Output(loopErr), d.cfg.MinTurnPct, maxPct)
		faults.Add(d.SetPercent(ctx, dir*cmd, -dir*cmd))
		return loopErr, false
	})

	faults.Add(d.Stop(context.WithoutCancel(ctx), motor.Brake))
	d.logFinish("turn to angle", out)
	return out, multierr.Combine(ctxErr, faults.Err())
}
