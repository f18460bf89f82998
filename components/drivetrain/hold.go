package drivetrain

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/sparkline-robotics/motioncore/components/motor"
)

// HoldBrief stops the drivetrain with a hard position hold for hold, then relaxes to brake. It is
// used to kill residual momentum before a scoring action.
func (d *Drivetrain) HoldBrief(ctx context.Context, hold time.Duration) error {
	err := d.Stop(ctx, motor.Hold)
	sleepErr := d.clock.Sleep(ctx, hold)
	err = multierr.Combine(err, d.Stop(context.WithoutCancel(ctx), motor.Brake))
	return multierr.Combine(sleepErr, err)
}
