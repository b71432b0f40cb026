package controller

import (
	"github.com/timberwise/sortline"
	"github.com/timberwise/sortline/protocol"
)

// faultState is owned by the fault handlers below; the rest of the
// controller only reads paused. recoveryActive and reconnection are
// after-the-fact markers that survive a clear and drop on the next
// mode command.
type faultState struct {
	paused           bool
	manualInspection bool
	recoveryActive   bool
	reconnection     bool
	kind             sortline.FaultKind
	lastType         string
	lastDesc         string
	pauseStart       uint32
	lastStatusAt     uint32
}

// raiseFault pauses the line for the hard kinds and counts the rest as
// warnings. A fault landing mid-cycle first reports the segment it
// froze on so the host knows where the workpiece stopped.
func (c *Controller) raiseFault(kind sortline.FaultKind, errType, desc string, nowMs uint32) {
	if !kind.Pauses() {
		c.diag.warnings++
		return
	}

	if c.scan.scanInProgress && !c.fault.paused {
		c.emit(protocol.PauseLine(c.scan.segment))
	}
	c.cancelDelay()
	c.drive.disable()

	wasPaused := c.fault.paused
	c.fault.paused = true
	c.fault.kind = kind
	c.fault.lastType = errType
	c.fault.lastDesc = desc
	if !wasPaused {
		c.fault.pauseStart = nowMs
		c.fault.lastStatusAt = nowMs
	}
	if kind == sortline.FaultManualInspection {
		c.fault.manualInspection = true
	}
	c.emit(protocol.PausedLine(errType))
}

// clearFault drops every fault flag and restarts motion where the mode
// calls for it. A scan cycle frozen mid-segment keeps its remaining
// travel: the pause duration is added onto the session timestamps so
// elapsed-time checks pick up exactly where they stopped.
func (c *Controller) clearFault(echoType string, nowMs, nowUs uint32) {
	pausedFor := nowMs - c.fault.pauseStart
	wasPaused := c.fault.paused
	c.fault = faultState{
		recoveryActive: c.fault.recoveryActive,
		reconnection:   c.fault.reconnection,
	}
	c.emit(protocol.ClearedLine(echoType))
	if !wasPaused {
		return
	}

	switch c.mode {
	case sortline.ModeContinuous, sortline.ModeTrigger:
		c.drive.enableRamp(nowUs)
	case sortline.ModeScanPhase:
		if c.scan.scanInProgress {
			c.scan.moveStart += pausedFor
			c.scan.pauseStart += pausedFor
			if !c.scan.waitingForPause {
				c.drive.enableFast(nowUs)
			}
		}
	}
}

// tickPaused runs instead of the mode handler while a fault is active:
// it watches the safety timeout and keeps the host informed.
func (c *Controller) tickPaused(nowMs uint32) {
	if nowMs-c.fault.pauseStart >= c.cfg.Timing.SafetyTimeoutMs {
		last := c.fault.lastType
		c.enterIdle()
		c.fault.recoveryActive = true
		c.emit(protocol.ClearedLine(last))
		return
	}

	if nowMs-c.fault.lastStatusAt >= c.cfg.Timing.PausedStatusMs {
		c.fault.lastStatusAt = nowMs
		c.emit(protocol.PausedLine(c.fault.lastType))
	}
}

// rejectAction routes the held workpiece to the reject bin. Only valid
// while a manual inspection is pending; any other time it is ignored.
func (c *Controller) rejectAction(nowMs uint32) {
	if !c.fault.manualInspection {
		return
	}

	staged, err := c.gates.begin(c.cfg.Gates.RejectGate)
	if err != nil {
		c.diag.gateFaults++
	}
	if staged {
		c.scheduleDelay(delayRejectMove, c.cfg.Gates.StageSettleMs, nowMs)
		c.delay.grade = c.cfg.Gates.RejectGate
		return
	}
	c.scheduleDelay(delayRejectDwell, c.cfg.Gates.RejectDwellMs, nowMs)
}

// finishReject runs after the reject dwell: gates back to neutral, the
// inspection flag drops and the session rearms for the next workpiece.
func (c *Controller) finishReject(nowMs uint32) {
	if _, err := c.gates.begin(sortline.GradeNeutral); err != nil {
		c.diag.gateFaults++
	}
	c.fault.manualInspection = false
	c.scan = scanSession{waitingForBeam: true}
	c.sensor.rearm(c.hw.Beam.Broken(), nowMs)
}

// recoverMode handles a host reconnect after a controller-side reset.
// Only a return to Idle is safe to honor sight unseen; anything else
// needs an operator.
func (c *Controller) recoverMode(target string) {
	if mode, ok := sortline.ModeFromName(target); !ok || mode != sortline.ModeIdle {
		c.emit(protocol.ManualRestartReqrd)
		return
	}
	c.enterIdle()
	c.fault.reconnection = true
}
