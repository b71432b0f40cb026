package protocol

import (
	"fmt"

	"github.com/timberwise/sortline"
)

// Fixed outbound tokens. The vision host keys its handshake and feed
// control on these exact strings.
const (
	ReadyBanner        = "ARDUINO_READY"
	BeamBroken         = "B"
	ResumeLiveFeed     = "RESUME_LIVE_FEED"
	ReadyForNextScan   = "READY_FOR_NEXT_SCAN"
	BufferCleared      = "BUFFER_CLEARED"
	ManualRestartReqrd = "MANUAL_RESTART_REQUIRED"
)

// CaptureLine requests a still capture after segment n came to rest
func CaptureLine(n int) string {
	return fmt.Sprintf("CAPTURE:%d", n)
}

// PauseLine announces the dwell (or a fault stop) at segment n
func PauseLine(n int) string {
	return fmt.Sprintf("P:%d", n)
}

// PausedLine announces a fault pause of the given type
func PausedLine(errType string) string {
	return "SYSTEM_PAUSED:" + errType
}

// ClearedLine acknowledges that a fault of the given type was cleared
func ClearedLine(errType string) string {
	return "ERROR_CLEARED:" + errType
}

// StatusLine renders the full status report
func StatusLine(mode, previous sortline.Mode, scan, paused, recovery bool) string {
	return fmt.Sprintf("SYSTEM_STATUS:mode=%s,scan=%t,paused=%t,previous=%s,recovery=%t",
		mode, scan, paused, previous, recovery)
}

// LengthLine reports a measured workpiece: raw beam-broken duration, the
// duration adjusted for capture dwells, and the derived length in
// hundredths of an inch
func LengthLine(rawMs, adjMs uint32, hundredths int) string {
	return fmt.Sprintf("L:%d ms (Adjusted: %d ms) | Length: %d.%02d in (Scan Phase)",
		rawMs, adjMs, hundredths/100, hundredths%100)
}
