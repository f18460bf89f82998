// Package fake implements a simulated port set for running the robot without hardware.
package fake

import (
	"github.com/sparkline-robotics/motioncore/components/conveyor"
	"github.com/sparkline-robotics/motioncore/components/drivetrain"
	"github.com/sparkline-robotics/motioncore/components/motor/fake"
	"github.com/sparkline-robotics/motioncore/control"
	"github.com/sparkline-robotics/motioncore/logging"
	"github.com/sparkline-robotics/motioncore/robot"
)

// PortSet is a full set of simulated motors. Every motor integrates its motion whenever the
// clock it was built with advances.
type PortSet struct {
	FrontLeft  *fake.Motor
	BackLeft   *fake.Motor
	FrontRight *fake.Motor
	BackRight  *fake.Motor

	Bottom *fake.Motor
	Middle *fake.Motor
	Top1   *fake.Motor
	Top2   *fake.Motor
}

// NewPortSet returns simulated motors driven by clk.
func NewPortSet(clk *control.SimClock, logger logging.Logger) *PortSet {
	newMotor := func(name string) *fake.Motor {
		m := fake.NewMotor(name, logger)
		clk.OnAdvance(m.Advance)
		return m
	}
	return &PortSet{
		FrontLeft:  newMotor("front_left"),
		BackLeft:   newMotor("back_left"),
		FrontRight: newMotor("front_right"),
		BackRight:  newMotor("back_right"),
		Bottom:     newMotor("bottom"),
		Middle:     newMotor("middle"),
		Top1:       newMotor("top_1"),
		Top2:       newMotor("top_2"),
	}
}

// Drive returns the drivetrain ports.
func (p *PortSet) Drive() drivetrain.Ports {
	return drivetrain.Ports{
		FrontLeft:  p.FrontLeft,
		BackLeft:   p.BackLeft,
		FrontRight: p.FrontRight,
		BackRight:  p.BackRight,
	}
}

// Conveyor returns the conveyor ports.
func (p *PortSet) Conveyor() conveyor.Ports {
	return conveyor.Ports{Bottom: p.Bottom, Middle: p.Middle, Top1: p.Top1, Top2: p.Top2}
}

// Ports returns the robot port set.
func (p *PortSet) Ports() robot.PortSet {
	return robot.PortSet{Drive: p.Drive(), Conveyor: p.Conveyor()}
}

// DriveMotors returns the drive motors in front-left, back-left, front-right, back-right order.
func (p *PortSet) DriveMotors() []*fake.Motor {
	return []*fake.Motor{p.FrontLeft, p.BackLeft, p.FrontRight, p.BackRight}
}

// ConveyorMotors returns the conveyor motors from bottom to top.
func (p *PortSet) ConveyorMotors() []*fake.Motor {
	return []*fake.Motor{p.Bottom, p.Middle, p.Top1, p.Top2}
}
