package operator

import "sync"

// Button identifies one of the operator's conveyor buttons.
type Button string

// The shoulder buttons used for the conveyor.
const (
	ButtonL1 Button = "L1"
	ButtonL2 Button = "L2"
	ButtonR1 Button = "R1"
	ButtonR2 Button = "R2"
)

// Inputs is the operator's controller, sampled once per driver-control tick.
type Inputs interface {
	// LeftAxis and RightAxis are signed percents for the left and right drive sides.
	LeftAxis() float64
	RightAxis() float64
	Pressed(b Button) bool
}

// Snapshot is an Inputs holding fixed values. Hosts that receive controller state as events can
// update a Snapshot and hand it to the loop.
type Snapshot struct {
	mu      sync.Mutex
	left    float64
	right   float64
	pressed map[Button]bool
}

// NewSnapshot returns a snapshot with centred axes and no button pressed.
func NewSnapshot() *Snapshot {
	return &Snapshot{pressed: map[Button]bool{}}
}

// SetAxes sets both drive axes.
func (s *Snapshot) SetAxes(left, right float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.left, s.right = left, right
}

// SetPressed sets whether b is held down.
func (s *Snapshot) SetPressed(b Button, pressed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed[b] = pressed
}

// LeftAxis returns the left axis.
func (s *Snapshot) LeftAxis() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.left
}

// RightAxis returns the right axis.
func (s *Snapshot) RightAxis() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.right
}

// Pressed returns whether b is held down.
func (s *Snapshot) Pressed(b Button) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed[b]
}
