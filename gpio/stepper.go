//go:build linux

package gpio

import (
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/timberwise/sortline/controller"
)

// 8-position half-step sequence for a 4-coil winding
var halfStepSequence = [8][4]bool{
	{true, false, false, false},
	{true, true, false, false},
	{false, true, false, false},
	{false, true, true, false},
	{false, false, true, false},
	{false, false, true, true},
	{false, false, false, true},
	{true, false, false, true},
}

// Stepper energizes the conveyor motor's coils directly. It holds no
// cadence of its own; the controller's drive decides when each step
// fires, so Step just advances the sequence.
type Stepper struct {
	pins     [4]rpio.Pin
	position int
	powered  bool
}

var _ controller.StepDriver = (*Stepper)(nil)

func NewStepper(cfg StepperConfig) *Stepper {
	s := &Stepper{}
	for i, p := range cfg.Pins {
		s.pins[i] = rpio.Pin(p)
		s.pins[i].Output()
		s.pins[i].Low()
	}
	return s
}

// Step implements controller.StepDriver.
func (s *Stepper) Step() {
	if !s.powered {
		return
	}

	s.position = (s.position + 1) % len(halfStepSequence)
	s.applyStep()
}

// SetEnabled implements controller.StepDriver. Disabling drops every
// coil so the motor freewheels and stops heating.
func (s *Stepper) SetEnabled(enabled bool) {
	s.powered = enabled
	if enabled {
		s.applyStep()
		return
	}

	for i := range s.pins {
		s.pins[i].Low()
	}
}

func (s *Stepper) applyStep() {
	for i, high := range halfStepSequence[s.position] {
		if high {
			s.pins[i].High()
		} else {
			s.pins[i].Low()
		}
	}
}
