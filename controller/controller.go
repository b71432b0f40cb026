// Package controller implements the tick-driven control core for the
// inspection line. One Controller owns every piece of mutable state
// (mode, scan session, fault state, command channel) and everything is
// serialized through its Tick, so callers feed bytes and tick from a
// single goroutine.
package controller

import (
	"errors"
	"fmt"
	"io"

	"github.com/timberwise/sortline"
	"github.com/timberwise/sortline/protocol"
)

// BeamReader reports the raw, undebounced presence level. true means
// the beam is interrupted by a workpiece.
type BeamReader interface {
	Broken() bool
}

// Hardware collects the three drivers the controller runs against
type Hardware struct {
	Drive StepDriver
	Gates GateDriver
	Beam  BeamReader
}

// delayKind names the bounded sub-states that stand in for the fixed
// mechanical delays. While one is pending the tick is atomic: no
// dispatch, no mode logic, no sensor poll until the deadline passes.
type delayKind int

const (
	delayNone delayKind = iota
	delayGateStage
	delayPostBreak
	delayPreCapture
	delayTailClear
	delayRejectMove
	delayRejectDwell
)

type delayState struct {
	kind  delayKind
	until uint32
	grade sortline.Grade
}

type diagnostics struct {
	warnings   uint32
	gateFaults uint32
	boards     uint32
}

// Controller is the single owner of the line's control state
type Controller struct {
	cfg Config
	hw  Hardware
	clk Clock
	out io.Writer

	ch       protocol.Channel
	mode     sortline.Mode
	previous sortline.Mode
	drive    drive
	gates    gateBank
	sensor   beamSensor
	scan     scanSession
	fault    faultState
	delay    delayState
	plan     [segmentCount]float64

	lastDispatch    uint32
	lastCyclePauses int
	diag            diagnostics
	started         bool
}

// New wires a controller against its hardware. out receives the
// outbound protocol lines; a nil clk falls back to the wall clock.
func New(cfg Config, hw Hardware, out io.Writer, clk Clock) (*Controller, error) {
	if hw.Drive == nil || hw.Gates == nil || hw.Beam == nil {
		return nil, errors.New("controller: all three hardware drivers are required")
	}
	if out == nil {
		return nil, errors.New("controller: output writer is required")
	}
	if clk == nil {
		clk = NewWallClock()
	}

	c := &Controller{
		cfg:    cfg,
		hw:     hw,
		clk:    clk,
		out:    out,
		drive:  newDrive(cfg.Drive, hw.Drive),
		gates:  newGateBank(cfg.Gates, hw.Gates),
		sensor: newBeamSensor(cfg.Sensor),
		plan:   buildPlan(cfg.Line),
	}

	// lets the first command through immediately instead of one
	// dispatch interval after boot
	c.lastDispatch = 0 - cfg.Timing.CommandIntervalMs

	return c, nil
}

// Start runs the power-on sequence: gates sweep to the calibrate angle,
// return to neutral, and the ready banner goes out exactly once.
func (c *Controller) Start() error {
	if c.started {
		return errors.New("controller: already started")
	}
	c.started = true

	if _, err := c.gates.begin(sortline.GradeCalibrate); err != nil {
		return errors.New("controller: gate calibration failed: " + err.Error())
	}
	if _, err := c.gates.begin(sortline.GradeNeutral); err != nil {
		return errors.New("controller: gate neutral failed: " + err.Error())
	}

	c.emit(protocol.ReadyBanner)
	return nil
}

// Feed hands raw transport bytes to the command channel. Call it from
// the same goroutine that calls Tick.
func (c *Controller) Feed(p []byte) {
	c.ch.Feed(p)
}

// Tick runs one pass of the control loop. The order is fixed: a pending
// delay sub-state is atomic, then at most one command dispatches, a
// fault pause short-circuits everything else, the active mode handler
// runs, and the sensor is polled last.
func (c *Controller) Tick() {
	nowMs, nowUs := c.clk.Millis(), c.clk.Micros()

	if c.delay.kind != delayNone {
		if c.delay.kind == delayTailClear {
			c.drive.tick(nowUs)
		}
		if int32(nowMs-c.delay.until) < 0 {
			return
		}
		c.finishDelay(nowMs, nowUs)
		return
	}

	c.dispatch(nowMs, nowUs)
	if c.delay.kind != delayNone {
		// the command opened a mechanical delay; stay atomic
		return
	}

	if c.fault.paused {
		c.tickPaused(nowMs)
		return
	}

	switch c.mode {
	case sortline.ModeContinuous, sortline.ModeTrigger:
		c.drive.tick(nowUs)
	case sortline.ModeScanPhase:
		c.tickScan(nowMs, nowUs)
	}

	c.pollBeam(nowMs)
}

// dispatch consumes at most one frame per command interval, then
// flushes a stalled channel
func (c *Controller) dispatch(nowMs, nowUs uint32) {
	if nowMs-c.lastDispatch >= c.cfg.Timing.CommandIntervalMs {
		if line, ok := c.ch.NextLine(); ok {
			c.lastDispatch = nowMs
			if cmd, valid := protocol.Parse(line); valid {
				c.apply(cmd, nowMs, nowUs)
			}
		}
	}

	if c.ch.Pending() > protocol.DrainThreshold {
		c.ch.Drain()
		c.emit(protocol.BufferCleared)
	}
}

func (c *Controller) apply(cmd protocol.Command, nowMs, nowUs uint32) {
	switch cmd.Kind {
	case protocol.KindGate:
		c.applyGate(cmd.Gate, nowMs)
	case protocol.KindMode:
		c.applyMode(cmd.Mode, nowMs, nowUs)
	case protocol.KindReject:
		c.rejectAction(nowMs)
	case protocol.KindStatus:
		c.emitStatus()
	case protocol.KindRaiseFault:
		c.raiseFault(sortline.FaultKindFromType(cmd.FaultType), cmd.FaultType, cmd.Desc, nowMs)
	case protocol.KindClearFault:
		c.clearFault(cmd.FaultType, nowMs, nowUs)
	case protocol.KindPause:
		kind := sortline.FaultHostPause
		c.raiseFault(kind, kind.String(), "paused by host", nowMs)
	case protocol.KindResume:
		if c.fault.paused {
			c.clearFault(c.fault.lastType, nowMs, nowUs)
		}
	case protocol.KindInspectionDone:
		c.fault.manualInspection = false
	case protocol.KindRecoverMode:
		c.recoverMode(cmd.Target)
	}
}

// applyGate routes the next workpiece. Staged grades leave the rear
// pair pending behind the settle delay.
func (c *Controller) applyGate(grade sortline.Grade, nowMs uint32) {
	staged, err := c.gates.begin(grade)
	if err != nil {
		c.diag.gateFaults++
	}
	if staged {
		c.scheduleDelay(delayGateStage, c.cfg.Gates.StageSettleMs, nowMs)
		c.delay.grade = grade
	}
}

func (c *Controller) applyMode(target sortline.Mode, nowMs, nowUs uint32) {
	if target != sortline.ModeIdle && c.fault.paused {
		// C/T/S are refused while the line is fault-paused
		c.emit(protocol.PausedLine(c.fault.lastType))
		return
	}

	c.fault.recoveryActive = false
	c.fault.reconnection = false

	switch target {
	case sortline.ModeIdle:
		c.enterIdle()
	case sortline.ModeContinuous, sortline.ModeTrigger:
		c.setMode(target)
		c.scan = scanSession{}
		c.drive.enableRamp(nowUs)
	case sortline.ModeScanPhase:
		c.setMode(target)
		c.drive.disable()
		c.scan = scanSession{waitingForBeam: true}
	}
}

func (c *Controller) setMode(m sortline.Mode) {
	if m != c.mode {
		c.previous = c.mode
		c.mode = m
	}
}

// enterIdle is the universal reset: gates neutral, drive released,
// session dropped and every fault flag cleared
func (c *Controller) enterIdle() {
	c.setMode(sortline.ModeIdle)
	c.cancelDelay()
	c.drive.disable()
	if _, err := c.gates.begin(sortline.GradeNeutral); err != nil {
		c.diag.gateFaults++
	}
	c.scan = scanSession{}
	c.fault = faultState{}
}

func (c *Controller) emitStatus() {
	c.emit(protocol.StatusLine(
		c.mode,
		c.previous,
		c.scan.scanInProgress,
		c.fault.paused,
		c.fault.recoveryActive || c.fault.reconnection,
	))
}

// pollBeam runs the debounce step and reacts to its events. The break
// notification goes out in every mode; scan handling only in ScanPhase.
func (c *Controller) pollBeam(nowMs uint32) {
	ev, brokenMs := c.sensor.poll(c.hw.Beam.Broken(), nowMs)
	switch ev {
	case beamBroken:
		c.emit(protocol.BeamBroken)
		if c.mode == sortline.ModeScanPhase && c.scan.waitingForBeam {
			c.beginCycle(nowMs)
		}
	case beamCleared:
		if c.mode == sortline.ModeScanPhase {
			c.onBeamCleared(brokenMs)
		}
	}
}

func (c *Controller) scheduleDelay(kind delayKind, durMs, nowMs uint32) {
	c.delay = delayState{kind: kind, until: nowMs + durMs}
}

func (c *Controller) cancelDelay() {
	c.delay = delayState{}
}

// finishDelay runs the action a delay sub-state was holding back
func (c *Controller) finishDelay(nowMs, nowUs uint32) {
	kind, grade := c.delay.kind, c.delay.grade
	c.delay = delayState{}

	switch kind {
	case delayGateStage:
		if err := c.gates.finish(grade); err != nil {
			c.diag.gateFaults++
		}
	case delayPostBreak:
		c.startSegment(1, nowMs, nowUs)
	case delayPreCapture:
		c.segmentAtRest(nowMs, nowUs)
	case delayTailClear:
		c.finishCycle(nowMs)
	case delayRejectMove:
		if err := c.gates.finish(grade); err != nil {
			c.diag.gateFaults++
		}
		c.scheduleDelay(delayRejectDwell, c.cfg.Gates.RejectDwellMs, nowMs)
	case delayRejectDwell:
		c.finishReject(nowMs)
	}
}

func (c *Controller) emit(line string) {
	fmt.Fprintf(c.out, "%s\r\n", line)
}

// Snapshot is a read-only copy of the externally interesting state,
// taken by the loop owner for the status mirror
type Snapshot struct {
	Mode             string `json:"mode"`
	Previous         string `json:"previous"`
	ScanActive       bool   `json:"scan_active"`
	Paused           bool   `json:"paused"`
	ManualInspection bool   `json:"manual_inspection"`
	Recovery         bool   `json:"recovery"`
	Segment          int    `json:"segment"`
	PauseCount       int    `json:"pause_count"`
	LastFault        string `json:"last_fault,omitempty"`
	LastFaultDesc    string `json:"last_fault_desc,omitempty"`
	Warnings         uint32 `json:"warnings"`
	GateFaults       uint32 `json:"gate_faults"`
	Boards           uint32 `json:"boards"`
}

// Snapshot must be called from the goroutine that owns Tick
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Mode:             c.mode.String(),
		Previous:         c.previous.String(),
		ScanActive:       c.scan.scanInProgress,
		Paused:           c.fault.paused,
		ManualInspection: c.fault.manualInspection,
		Recovery:         c.fault.recoveryActive || c.fault.reconnection,
		Segment:          c.scan.segment,
		PauseCount:       c.scan.pauseCount,
		LastFault:        c.fault.lastType,
		LastFaultDesc:    c.fault.lastDesc,
		Warnings:         c.diag.warnings,
		GateFaults:       c.diag.gateFaults,
		Boards:           c.diag.boards,
	}
}
