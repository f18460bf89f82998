package drivetrain

import "math"

// Kinematics converts chassis motion into wheel rotation for a tank drivetrain.
type Kinematics struct {
	WheelDiameterMM float64
	TrackWidthMM    float64
}

// WheelCircumferenceMM returns the distance covered by one wheel revolution.
func (k Kinematics) WheelCircumferenceMM() float64 {
	return math.Pi * k.WheelDiameterMM
}

// MMToWheelDeg converts linear travel into wheel rotation degrees.
func (k Kinematics) MMToWheelDeg(mm float64) float64 {
	return mm / k.WheelCircumferenceMM() * 360
}

// WheelDegToMM converts wheel rotation degrees into linear travel.
func (k Kinematics) WheelDegToMM(deg float64) float64 {
	return deg / 360 * k.WheelCircumferenceMM()
}

// TurnArcMM returns the arc each side travels for an in-place rotation of deg. The direction of
// the turn does not matter.
func (k Kinematics) TurnArcMM(deg float64) float64 {
	return math.Pi * k.TrackWidthMM * math.Abs(deg) / 360
}

// TurnWheelDeg returns the wheel rotation each side needs for an in-place rotation of deg.
func (k Kinematics) TurnWheelDeg(deg float64) float64 {
	return k.MMToWheelDeg(k.TurnArcMM(deg))
}
