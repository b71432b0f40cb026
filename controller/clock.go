package controller

import "time"

// Clock is the fixed-width monotonic timebase the controller runs on.
// Both counters wrap around; every duration comparison in this package
// subtracts two uint32 readings, which stays correct across a wrap.
type Clock interface {
	Millis() uint32
	Micros() uint32
}

type wallClock struct {
	start time.Time
}

// NewWallClock returns a Clock backed by the runtime's monotonic clock
func NewWallClock() Clock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *wallClock) Micros() uint32 {
	return uint32(time.Since(c.start).Microseconds())
}
