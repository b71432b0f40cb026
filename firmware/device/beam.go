//go:build tinygo

package device

import (
	"machine"

	"github.com/timberwise/sortline/controller"
)

// Beam reads the through-beam receiver. Debouncing happens in the
// controller; this is the raw level.
type Beam struct {
	pin       machine.Pin
	activeLow bool
}

var _ controller.BeamReader = (*Beam)(nil)

func NewBeam(cfg BeamConfig) *Beam {
	mode := machine.PinInputPulldown
	if cfg.ActiveLow {
		mode = machine.PinInputPullup
	}
	cfg.Pin.Configure(machine.PinConfig{Mode: mode})

	return &Beam{pin: cfg.Pin, activeLow: cfg.ActiveLow}
}

// Broken implements controller.BeamReader.
func (b *Beam) Broken() bool {
	return b.pin.Get() != b.activeLow
}
