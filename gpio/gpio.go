//go:build linux

// Package gpio drives the line hardware from a Raspberry Pi's header:
// a coil-wound stepper for the conveyor, four hobby servos for the
// routing gates, and the through-beam sensor input. It satisfies the
// controller's driver interfaces so the same control core runs here
// and on the bench simulator.
package gpio

import (
	"github.com/stianeikeland/go-rpio/v4"
)

// Config ...
type Config struct {
	Stepper StepperConfig
	Gates   GatesConfig
	Beam    BeamConfig
}

// StepperConfig ...
type StepperConfig struct {
	Pins [4]int
}

// GatesConfig has the servo signal pins in gate order
type GatesConfig struct {
	Pins [4]int
	// MaxAngle is the servo's full sweep, used to scale angles to
	// pulse widths. 180 when zero.
	MaxAngle int
}

// BeamConfig ...
type BeamConfig struct {
	Pin int
	// ActiveLow marks receivers that pull the pin low while blocked
	ActiveLow bool
}

// Open maps the GPIO memory range. Call Close when done.
func Open() error {
	return rpio.Open()
}

func Close() error {
	return rpio.Close()
}
