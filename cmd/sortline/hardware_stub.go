//go:build !linux

package main

import (
	"errors"

	"github.com/timberwise/sortline/controller"
)

func openHardware() (controller.Hardware, func(), error) {
	return controller.Hardware{}, nil, errors.New("gpio mode is only supported on linux")
}
