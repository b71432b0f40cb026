package controller

import "github.com/timberwise/sortline"

// GateDriver positions one routing gate. Gates are indexed 0-3 here;
// the line labels them 1-4.
type GateDriver interface {
	SetAngle(gate, angle int) error
}

// gateBank sequences the four routing gates. begin applies everything
// that moves immediately; for the staged grades the caller owes a
// finish call after the settle window.
type gateBank struct {
	cfg GateConfig
	hw  GateDriver
}

func newGateBank(cfg GateConfig, hw GateDriver) gateBank {
	return gateBank{cfg: cfg, hw: hw}
}

// begin starts a gate command. staged reports whether the rear pair is
// still owed; err carries the first driver failure.
func (g *gateBank) begin(grade sortline.Grade) (staged bool, err error) {
	switch grade {
	case sortline.Grade2:
		return true, g.pair(0, g.cfg.Grade2Front)
	case sortline.Grade3:
		return true, g.pair(0, g.cfg.Grade3Front)
	case sortline.Grade0:
		return false, g.allTo(g.cfg.Grade0Angle)
	case sortline.GradeCalibrate:
		return false, g.allTo(g.cfg.CalibrateAngle)
	default:
		return false, g.allTo(g.cfg.NeutralAngle)
	}
}

// finish applies the rear pair of a staged grade
func (g *gateBank) finish(grade sortline.Grade) error {
	switch grade {
	case sortline.Grade2:
		return g.pair(2, g.cfg.Grade2Rear)
	case sortline.Grade3:
		return g.pair(2, g.cfg.Grade3Rear)
	}
	return nil
}

func (g *gateBank) allTo(angle int) error {
	var first error
	for i := 0; i < 4; i++ {
		if err := g.hw.SetAngle(i, angle); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (g *gateBank) pair(offset int, angles [2]int) error {
	err := g.hw.SetAngle(offset, angles[0])
	if err2 := g.hw.SetAngle(offset+1, angles[1]); err == nil {
		err = err2
	}
	return err
}
