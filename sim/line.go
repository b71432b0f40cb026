// Package sim models the physical line in software: the belt, the
// boards riding it, the beam sensor and the routing gates. One Line
// satisfies all three hardware interfaces the controller runs against,
// so the full control loop can run without hardware, both in tests and
// behind the runner's -sim flag.
package sim

// DefaultInchPerStep matches the production drive: 800us pulse floor at
// 1.25 in/s belt speed.
const DefaultInchPerStep = 0.001

type board struct {
	leadAt float64
	length float64
}

// Line is the software line. Step advances the belt by one pulse;
// boards ride the belt past a fixed beam position.
type Line struct {
	inchPerStep float64
	travel      float64
	energized   bool

	boards []board
	angles [4]int
}

// NewLine returns a line with no boards on the belt. inchPerStep <= 0
// falls back to the production value.
func NewLine(inchPerStep float64) *Line {
	if inchPerStep <= 0 {
		inchPerStep = DefaultInchPerStep
	}
	return &Line{inchPerStep: inchPerStep}
}

// FeedBoard drops a board onto the belt with its leading edge at the
// beam, the way the upstream feed stages stock while the scan belt is
// stopped. The beam reads broken immediately.
func (l *Line) FeedBoard(lengthIn float64) {
	kept := l.boards[:0]
	for _, b := range l.boards {
		if l.travel < b.leadAt+b.length {
			kept = append(kept, b)
		}
	}
	l.boards = append(kept, board{leadAt: l.travel, length: lengthIn})
}

// Step advances the belt by one drive pulse
func (l *Line) Step() {
	l.travel += l.inchPerStep
}

func (l *Line) SetEnabled(on bool) {
	l.energized = on
}

// SetAngle records a gate move. Gate indexes outside 0-3 are a wiring
// bug, not a line condition, so they are ignored rather than failed.
func (l *Line) SetAngle(gate, angle int) error {
	if gate >= 0 && gate < len(l.angles) {
		l.angles[gate] = angle
	}
	return nil
}

// Broken reports whether any board is currently under the beam
func (l *Line) Broken() bool {
	for _, b := range l.boards {
		if l.travel >= b.leadAt && l.travel < b.leadAt+b.length {
			return true
		}
	}
	return false
}

// Travel reports total belt movement in inches
func (l *Line) Travel() float64 {
	return l.travel
}

// Energized reports the drive enable state
func (l *Line) Energized() bool {
	return l.energized
}

// Angles reports the last commanded gate angles
func (l *Line) Angles() [4]int {
	return l.angles
}
