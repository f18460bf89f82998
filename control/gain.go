package control

import (
	"math"

	"github.com/sparkline-robotics/motioncore/utils"
)

// Proportional is a pure P controller. There is no integral or derivative term.
type Proportional struct {
	Kp float64
}

// Output returns Kp * loopErr.
func (p Proportional) Output(loopErr float64) float64 {
	return p.Kp * loopErr
}

// SaturateWithFloor limits cmd to [-maxPct, maxPct] and then raises any magnitude below floor up
// to floor, keeping the sign (zero counts as positive). The floor keeps the chassis moving against
// static friction when the error is small.
func SaturateWithFloor(cmd, maxPct, floor float64) float64 {
	cmd = utils.Clamp(cmd, -maxPct, maxPct)
	if math.Abs(cmd) < floor {
		cmd = floor * utils.Sign(cmd)
	}
	return cmd
}

// ClampMagnitude limits cmd to [floor, maxPct]. The result is never negative for a nonnegative
// floor; direction is applied by the caller.
func ClampMagnitude(cmd, floor, maxPct float64) float64 {
	return utils.Clamp(cmd, floor, maxPct)
}
