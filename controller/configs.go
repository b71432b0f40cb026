package controller

import "github.com/timberwise/sortline"

// SensorConfig ...
type SensorConfig struct {
	DebounceMs uint32
}

// DriveConfig holds the step cadence for the conveyor drive. Intervals
// are microseconds between pulses; the ramp walks from slow to fast by
// one step per pulse.
type DriveConfig struct {
	SlowIntervalUs uint32
	FastIntervalUs uint32
	RampStepUs     uint32
}

// GateConfig has the target angles for the four routing gates. The
// staged grades move gates 1&2 to the front pair, settle, then move
// gates 3&4 to the rear pair.
type GateConfig struct {
	NeutralAngle   int
	CalibrateAngle int
	Grade0Angle    int
	Grade2Front    [2]int
	Grade2Rear     [2]int
	Grade3Front    [2]int
	Grade3Rear     [2]int
	StageSettleMs  uint32
	RejectGate     sortline.Grade
	RejectDwellMs  uint32
}

// LineConfig describes the measured geometry of the line
type LineConfig struct {
	TotalLengthIn  float64
	LeadsIn        [3]float64
	TailClearIn    float64
	BeltSpeedInSec float64
}

// TimingConfig ...
type TimingConfig struct {
	PauseDwellMs       uint32
	PostBreakSettleMs  uint32
	PreCaptureSettleMs uint32
	SafetyTimeoutMs    uint32
	PausedStatusMs     uint32
	CommandIntervalMs  uint32
}

// Config bundles everything the controller needs. Entrypoints start
// from DefaultConfig and override what their deployment measures
// differently.
type Config struct {
	Sensor SensorConfig
	Drive  DriveConfig
	Gates  GateConfig
	Line   LineConfig
	Timing TimingConfig
}

// DefaultConfig returns the values the line runs with in production
func DefaultConfig() Config {
	return Config{
		Sensor: SensorConfig{
			DebounceMs: 50,
		},
		Drive: DriveConfig{
			SlowIntervalUs: 2400,
			FastIntervalUs: 800,
			RampStepUs:     16,
		},
		Gates: GateConfig{
			NeutralAngle:   90,
			CalibrateAngle: 180,
			Grade0Angle:    150,
			Grade2Front:    [2]int{50, 60},
			Grade2Rear:     [2]int{120, 130},
			Grade3Front:    [2]int{130, 120},
			Grade3Rear:     [2]int{60, 50},
			StageSettleMs:  250,
			RejectGate:     sortline.Grade3,
			RejectDwellMs:  1500,
		},
		Line: LineConfig{
			TotalLengthIn:  21.0,
			LeadsIn:        [3]float64{0.75, 7.0, 7.0},
			TailClearIn:    3.0,
			BeltSpeedInSec: 1.25,
		},
		Timing: TimingConfig{
			PauseDwellMs:       5000,
			PostBreakSettleMs:  500,
			PreCaptureSettleMs: 300,
			SafetyTimeoutMs:    300000,
			PausedStatusMs:     10000,
			CommandIntervalMs:  10,
		},
	}
}
