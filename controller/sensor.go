package controller

type beamEvent int

const (
	beamNone beamEvent = iota
	beamBroken
	beamCleared
)

// beamSensor debounces the raw presence level. The stable level commits
// only after the raw reading holds unchanged for longer than the window,
// so one physical transition fires exactly one event. poll does not
// allocate.
type beamSensor struct {
	window     uint32
	flicker    bool
	stable     bool
	lastChange uint32
	brokenAt   uint32
}

func newBeamSensor(cfg SensorConfig) beamSensor {
	return beamSensor{window: cfg.DebounceMs}
}

// poll runs one debounce step. broken=true means the beam is
// interrupted. The second return is the broken duration, set only on a
// cleared event.
func (b *beamSensor) poll(broken bool, now uint32) (beamEvent, uint32) {
	if broken != b.flicker {
		b.flicker = broken
		b.lastChange = now
	}

	if broken != b.stable && now-b.lastChange > b.window {
		b.stable = broken
		if broken {
			b.brokenAt = now
			return beamBroken, 0
		}
		return beamCleared, now - b.brokenAt
	}

	return beamNone, 0
}

// rearm restarts the debounce window at the current raw level without
// touching the stable level. A workpiece still under the beam cannot
// refire the break event, while a tail that already passed still yields
// its cleared event one window later.
func (b *beamSensor) rearm(broken bool, now uint32) {
	b.flicker = broken
	b.lastChange = now
}
