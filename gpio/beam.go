//go:build linux

package gpio

import (
	"github.com/stianeikeland/go-rpio/v4"

	"github.com/timberwise/sortline/controller"
)

// Beam reads the through-beam receiver. Debouncing happens in the
// controller; this is the raw level.
type Beam struct {
	pin       rpio.Pin
	activeLow bool
}

var _ controller.BeamReader = (*Beam)(nil)

func NewBeam(cfg BeamConfig) *Beam {
	b := &Beam{pin: rpio.Pin(cfg.Pin), activeLow: cfg.ActiveLow}
	b.pin.Input()
	if cfg.ActiveLow {
		b.pin.PullUp()
	} else {
		b.pin.PullDown()
	}
	return b
}

// Broken implements controller.BeamReader.
func (b *Beam) Broken() bool {
	low := b.pin.Read() == rpio.Low
	return low == b.activeLow
}
