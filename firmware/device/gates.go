//go:build tinygo

package device

import (
	"errors"

	"tinygo.org/x/drivers/servo"

	"github.com/timberwise/sortline/controller"
)

// Gates holds the four routing servos in gate order
type Gates struct {
	servos [4]servo.Servo
}

var _ controller.GateDriver = (*Gates)(nil)

func NewGates(cfg GatesConfig) (*Gates, error) {
	g := &Gates{}
	for i, sc := range cfg.Servos {
		s, err := servo.New(sc.PWM, sc.Pin)
		if err != nil {
			return nil, errors.New("error creating servo: " + err.Error())
		}
		g.servos[i] = s
	}
	return g, nil
}

// SetAngle implements controller.GateDriver.
func (g *Gates) SetAngle(gate, angle int) error {
	if gate < 0 || gate >= len(g.servos) {
		return errors.New("gate out of range")
	}
	return g.servos[gate].SetAngle(angle)
}
