//go:build linux

package gpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/timberwise/sortline/controller"
)

const (
	// standard hobby-servo frame and pulse range
	frameInterval = 20 * time.Millisecond
	minPulse      = 500 * time.Microsecond
	maxPulse      = 2500 * time.Microsecond

	defaultMaxAngle = 180
)

// Gates drives the four routing servos with software-timed pulses, so
// the signal pins can live anywhere on the header instead of the two
// hardware PWM channels. A background loop emits one frame every 20ms;
// pulses go out one servo at a time, which also keeps more than one
// servo from drawing stall current at once.
type Gates struct {
	pins     [4]rpio.Pin
	maxAngle int

	mu     sync.Mutex
	widths [4]time.Duration

	stop chan struct{}
	done chan struct{}
}

var _ controller.GateDriver = (*Gates)(nil)

func NewGates(cfg GatesConfig) *Gates {
	g := &Gates{
		maxAngle: cfg.MaxAngle,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if g.maxAngle <= 0 {
		g.maxAngle = defaultMaxAngle
	}

	for i, p := range cfg.Pins {
		g.pins[i] = rpio.Pin(p)
		g.pins[i].Output()
		g.pins[i].Low()
	}

	go g.pulseLoop()
	return g
}

// SetAngle implements controller.GateDriver. The new width takes
// effect on the next frame; until the first call a gate gets no pulse
// at all and the servo stays wherever it was.
func (g *Gates) SetAngle(gate, angle int) error {
	if gate < 0 || gate >= len(g.pins) {
		return fmt.Errorf("gate %d out of range", gate)
	}
	if angle < 0 || angle > g.maxAngle {
		return fmt.Errorf("angle %d out of range [0, %d]", angle, g.maxAngle)
	}

	width := minPulse + time.Duration(angle)*(maxPulse-minPulse)/time.Duration(g.maxAngle)

	g.mu.Lock()
	g.widths[gate] = width
	g.mu.Unlock()

	return nil
}

// Close stops the pulse loop and drops every signal pin
func (g *Gates) Close() {
	close(g.stop)
	<-g.done

	for i := range g.pins {
		g.pins[i].Low()
	}
}

func (g *Gates) pulseLoop() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	defer close(g.done)

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.mu.Lock()
			widths := g.widths
			g.mu.Unlock()

			// worst case 4 x 2.5ms still fits inside one frame
			for i, w := range widths {
				if w == 0 {
					continue
				}
				g.pins[i].High()
				time.Sleep(w)
				g.pins[i].Low()
			}
		}
	}
}
