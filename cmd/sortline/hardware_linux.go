//go:build linux

package main

import (
	"fmt"

	"github.com/timberwise/sortline/controller"
	"github.com/timberwise/sortline/gpio"
)

func openHardware() (controller.Hardware, func(), error) {
	cfg := gpio.Config{
		Stepper: gpio.StepperConfig{Pins: [4]int{17, 27, 22, 23}},
		Gates:   gpio.GatesConfig{Pins: [4]int{5, 6, 13, 19}},
		Beam:    gpio.BeamConfig{Pin: 26, ActiveLow: true},
	}

	if err := gpio.Open(); err != nil {
		return controller.Hardware{}, nil, fmt.Errorf("opening gpio: %w", err)
	}

	stepper := gpio.NewStepper(cfg.Stepper)
	gates := gpio.NewGates(cfg.Gates)
	beam := gpio.NewBeam(cfg.Beam)

	cleanup := func() {
		gates.Close()
		stepper.SetEnabled(false)
		gpio.Close()
	}

	return controller.Hardware{Drive: stepper, Gates: gates, Beam: beam}, cleanup, nil
}
