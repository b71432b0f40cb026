package controller

import "github.com/timberwise/sortline/protocol"

// scanSession tracks one pass of the segmented scan cycle. segment is
// the 1-based number of the segment currently travelling (0 when none);
// it runs strictly 1..segmentCount within a cycle.
type scanSession struct {
	waitingForBeam  bool
	scanInProgress  bool
	waitingForPause bool
	segment         int
	pauseCount      int
	moveStart       uint32
	pauseStart      uint32
	segmentMs       uint32
}

// beginCycle arms the first segment once the leading edge breaks the
// beam. The board gets a settle window to seat on the belt before any
// travel starts.
func (c *Controller) beginCycle(nowMs uint32) {
	c.scan.waitingForBeam = false
	c.scan.scanInProgress = true
	c.scheduleDelay(delayPostBreak, c.cfg.Timing.PostBreakSettleMs, nowMs)
}

func (c *Controller) startSegment(n int, nowMs, nowUs uint32) {
	c.scan.segment = n
	c.scan.moveStart = nowMs
	c.scan.segmentMs = travelMs(c.plan[n-1], c.cfg.Line.BeltSpeedInSec)
	c.drive.enableFast(nowUs)
}

// tickScan advances the active cycle: travel until the segment's time
// is spent, dwell between segments, and hand over to the capture settle
// when a segment completes. A zero-length segment completes on its
// first tick with no travel.
func (c *Controller) tickScan(nowMs, nowUs uint32) {
	switch {
	case c.scan.waitingForPause:
		if nowMs-c.scan.pauseStart >= c.cfg.Timing.PauseDwellMs {
			c.scan.waitingForPause = false
			c.emit(protocol.ResumeLiveFeed)
			c.startSegment(c.scan.segment+1, nowMs, nowUs)
		}

	case c.scan.scanInProgress && c.scan.segment > 0:
		c.drive.tick(nowUs)
		if nowMs-c.scan.moveStart >= c.scan.segmentMs {
			c.drive.hold()
			c.scheduleDelay(delayPreCapture, c.cfg.Timing.PreCaptureSettleMs, nowMs)
		}
	}
}

// segmentAtRest fires once the belt has settled after a segment: the
// capture request and pause notice go out, then either the dwell starts
// or, after the last segment, the tail-clear run begins
func (c *Controller) segmentAtRest(nowMs, nowUs uint32) {
	n := c.scan.segment
	c.emit(protocol.CaptureLine(n))
	c.emit(protocol.PauseLine(n))

	if n < segmentCount {
		c.scan.waitingForPause = true
		c.scan.pauseStart = nowMs
		c.scan.pauseCount++
		return
	}

	c.drive.enableFast(nowUs)
	c.scheduleDelay(delayTailClear, travelMs(c.cfg.Line.TailClearIn, c.cfg.Line.BeltSpeedInSec), nowMs)
}

// finishCycle resets the session after tail-clear and rearms the
// debounce so a workpiece still under the beam cannot retrigger. The
// ready notice is NOT sent here; it waits for the cleared event.
func (c *Controller) finishCycle(nowMs uint32) {
	c.drive.disable()
	c.lastCyclePauses = c.scan.pauseCount
	c.diag.boards++
	c.scan = scanSession{waitingForBeam: true}
	c.sensor.rearm(c.hw.Beam.Broken(), nowMs)
}

// onBeamCleared reports the measured workpiece. The raw broken duration
// includes capture dwells, so the adjusted figure subtracts them before
// converting to a length. After a completed cycle the cleared event also
// tells the host the line is ready again.
func (c *Controller) onBeamCleared(brokenMs uint32) {
	pauses := c.scan.pauseCount
	if c.scan.waitingForBeam {
		pauses = c.lastCyclePauses
	}
	if !c.scan.scanInProgress && !c.scan.waitingForBeam {
		return
	}

	adjMs := brokenMs
	if stopped := uint32(pauses) * c.cfg.Timing.PauseDwellMs; stopped >= adjMs {
		adjMs = 0
	} else {
		adjMs -= stopped
	}

	c.emit(protocol.LengthLine(brokenMs, adjMs, lengthHundredths(adjMs, c.cfg.Line.BeltSpeedInSec)))

	if c.scan.waitingForBeam {
		c.emit(protocol.ReadyForNextScan)
	}
}
