//go:build tinygo

package device

import (
	"machine"

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

// Drive energizes the conveyor stepper's coils. The cadence lives in
// the controller, so Step just advances one half-step.
type Drive struct {
	pins     [4]machine.Pin
	position int
	powered  bool
}

var _ controller.StepDriver = (*Drive)(nil)

func NewDrive(cfg DriveConfig) *Drive {
	d := &Drive{pins: cfg.Pins}
	for _, p := range d.pins {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return d
}

// Step implements controller.StepDriver.
func (d *Drive) Step() {
	if !d.powered {
		return
	}

	d.position = (d.position + 1) % len(halfStepSequence)
	d.applyStep()
}

// SetEnabled implements controller.StepDriver. Disabling drops every
// coil so the motor freewheels.
func (d *Drive) SetEnabled(enabled bool) {
	d.powered = enabled
	if enabled {
		d.applyStep()
		return
	}

	for _, p := range d.pins {
		p.Low()
	}
}

func (d *Drive) applyStep() {
	for i, high := range halfStepSequence[d.position] {
		d.pins[i].Set(high)
	}
}
