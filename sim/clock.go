package sim

// Clock is a hand-advanced timebase for deterministic runs. It stands
// in for the firmware tick counters, so it wraps the same way.
type Clock struct {
	ms uint32
}

func (c *Clock) Millis() uint32 { return c.ms }
func (c *Clock) Micros() uint32 { return c.ms * 1000 }

// Advance moves the clock forward by the given number of milliseconds
func (c *Clock) Advance(ms uint32) {
	c.ms += ms
}
