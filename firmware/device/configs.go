//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// DriveConfig ...
type DriveConfig struct {
	Pins [4]machine.Pin
}

// ServoConfig has device-level values for setting up one gate servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM
}

// GatesConfig has the four gate servos in gate order
type GatesConfig struct {
	Servos [4]ServoConfig
}

// BeamConfig ...
type BeamConfig struct {
	Pin machine.Pin
	// ActiveLow marks receivers that pull the pin low while blocked
	ActiveLow bool
}
