package sortline

// Mode is the controller's top-level operating mode
type Mode int

const (
	ModeIdle Mode = iota
	ModeContinuous
	ModeTrigger
	ModeScanPhase
)

func (m Mode) String() string {
	switch m {
	case ModeContinuous:
		return "CONTINUOUS"
	case ModeTrigger:
		return "TRIGGER"
	case ModeScanPhase:
		return "SCAN_PHASE"
	default:
		fallthrough
	case ModeIdle:
		return "IDLE"
	}
}

// ModeFromName maps a wire mode name back to a Mode
func ModeFromName(name string) (Mode, bool) {
	switch name {
	case "IDLE":
		return ModeIdle, true
	case "CONTINUOUS":
		return ModeContinuous, true
	case "TRIGGER":
		return ModeTrigger, true
	case "SCAN_PHASE":
		return ModeScanPhase, true
	}
	return ModeIdle, false
}

// Grade is a gate routing target. GradeNeutral is the pass-through bin,
// Grade2/Grade3 are the split bins and GradeCalibrate is only used at boot.
type Grade int

const (
	Grade0 Grade = iota
	GradeNeutral
	Grade2
	Grade3
	GradeCalibrate
)

func (g Grade) String() string {
	switch g {
	case Grade0:
		return "GRADE_0"
	case Grade2:
		return "GRADE_2"
	case Grade3:
		return "GRADE_3"
	case GradeCalibrate:
		return "CALIBRATE"
	default:
		fallthrough
	case GradeNeutral:
		return "NEUTRAL"
	}
}

// Staged reports whether the grade moves the gate pairs in two phases
func (g Grade) Staged() bool {
	return g == Grade2 || g == Grade3
}

// FaultKind is the closed set of fault conditions the host can raise.
// Anything outside this set is advisory and never pauses the line.
type FaultKind int

const (
	FaultNone FaultKind = iota
	FaultCameraDisconnect
	FaultModelFailure
	FaultResourceLow
	FaultManualInspection
	FaultHostPause
	FaultAdvisory
)

func (k FaultKind) String() string {
	switch k {
	case FaultCameraDisconnect:
		return "CAMERA_DISCONNECT"
	case FaultModelFailure:
		return "MODEL_FAILURE"
	case FaultResourceLow:
		return "RESOURCE_LOW"
	case FaultManualInspection:
		return "MANUAL_INSPECTION"
	case FaultHostPause:
		return "HOST_PAUSE"
	case FaultAdvisory:
		return "ADVISORY"
	default:
		fallthrough
	case FaultNone:
		return "NONE"
	}
}

// Pauses reports whether raising this kind stops the whole line
func (k FaultKind) Pauses() bool {
	switch k {
	case FaultCameraDisconnect, FaultModelFailure, FaultResourceLow,
		FaultManualInspection, FaultHostPause:
		return true
	}
	return false
}

// FaultKindFromType maps a wire error type to its kind. Unrecognized
// types come back as FaultAdvisory.
func FaultKindFromType(errType string) FaultKind {
	switch errType {
	case "CAMERA_DISCONNECT":
		return FaultCameraDisconnect
	case "MODEL_FAILURE":
		return FaultModelFailure
	case "RESOURCE_LOW":
		return FaultResourceLow
	case "MANUAL_INSPECTION":
		return FaultManualInspection
	case "HOST_PAUSE":
		return FaultHostPause
	}
	return FaultAdvisory
}
