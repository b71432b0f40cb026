//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/timberwise/sortline/controller"
	"github.com/timberwise/sortline/firmware/device"
)

const tickInterval = time.Millisecond

func main() {
	driveCfg := device.DriveConfig{
		Pins: [4]machine.Pin{machine.GP16, machine.GP17, machine.GP18, machine.GP19},
	}

	// each servo on its own PWM slice
	gatesCfg := device.GatesConfig{
		Servos: [4]device.ServoConfig{
			{PWM: machine.PWM3, Pin: machine.GP6},
			{PWM: machine.PWM4, Pin: machine.GP8},
			{PWM: machine.PWM5, Pin: machine.GP10},
			{PWM: machine.PWM6, Pin: machine.GP12},
		},
	}

	beamCfg := device.BeamConfig{
		Pin:       machine.GP26,
		ActiveLow: true,
	}

	gates, err := device.NewGates(gatesCfg)
	if err != nil {
		panic(err)
	}

	hw := controller.Hardware{
		Drive: device.NewDrive(driveCfg),
		Gates: gates,
		Beam:  device.NewBeam(beamCfg),
	}

	ctrl, err := controller.New(controller.DefaultConfig(), hw, machine.Serial, nil)
	if err != nil {
		panic(err)
	}

	if err := ctrl.Start(); err != nil {
		panic(err)
	}

	buf := make([]byte, 1)
	for {
		for {
			b, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			buf[0] = b
			ctrl.Feed(buf)
		}

		ctrl.Tick()
		time.Sleep(tickInterval)
	}
}
