package controller

// StepDriver is the hardware behind the conveyor drive: one pulse per
// Step call. SetEnabled energizes or releases the motor.
type StepDriver interface {
	Step()
	SetEnabled(bool)
}

// maxBurst bounds cadence catch-up when the loop ticks coarser than the
// pulse interval
const maxBurst = 8

// drive generates the step cadence. Ramped mode walks the interval from
// the slow value down to the fast floor, one step per pulse, and holds
// there; pinned mode runs scan travel at the floor directly. Disabling
// resets the ramp.
type drive struct {
	cfg DriveConfig
	hw  StepDriver

	enabled    bool
	pinnedFast bool
	rampDone   bool
	intervalUs uint32
	lastUs     uint32
	pulses     uint32
}

func newDrive(cfg DriveConfig, hw StepDriver) drive {
	return drive{cfg: cfg, hw: hw, intervalUs: cfg.SlowIntervalUs}
}

// enableRamp starts continuous travel from the slow cadence. Calling it
// while already ramping keeps the cadence where it is.
func (d *drive) enableRamp(nowUs uint32) {
	if d.enabled && !d.pinnedFast {
		return
	}
	d.enabled = true
	d.pinnedFast = false
	d.rampDone = false
	d.intervalUs = d.cfg.SlowIntervalUs
	d.lastUs = nowUs
	d.hw.SetEnabled(true)
}

// enableFast pins the cadence at the floor for scan segments and
// tail-clear
func (d *drive) enableFast(nowUs uint32) {
	d.enabled = true
	d.pinnedFast = true
	d.intervalUs = d.cfg.FastIntervalUs
	d.lastUs = nowUs
	d.hw.SetEnabled(true)
}

// hold stops pulsing but keeps the motor energized, for dwells and
// settles
func (d *drive) hold() {
	d.enabled = false
}

// disable releases the motor and resets the ramp to the slow interval
func (d *drive) disable() {
	d.enabled = false
	d.pinnedFast = false
	d.rampDone = false
	d.intervalUs = d.cfg.SlowIntervalUs
	d.hw.SetEnabled(false)
}

// tick emits the pulses that came due, catching up a bounded burst when
// the loop ran late, then drops any remaining backlog
func (d *drive) tick(nowUs uint32) {
	if !d.enabled {
		return
	}

	for i := 0; i < maxBurst && nowUs-d.lastUs >= d.intervalUs; i++ {
		d.hw.Step()
		d.pulses++
		d.lastUs += d.intervalUs

		if d.pinnedFast || d.rampDone {
			continue
		}
		if d.intervalUs <= d.cfg.FastIntervalUs+d.cfg.RampStepUs {
			d.intervalUs = d.cfg.FastIntervalUs
			d.rampDone = true
		} else {
			d.intervalUs -= d.cfg.RampStepUs
		}
	}

	if nowUs-d.lastUs >= d.intervalUs {
		d.lastUs = nowUs
	}
}
