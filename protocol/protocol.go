// Package protocol implements the line protocol spoken between the
// controller and the vision host: a typed parser for inbound command
// frames and builders for the outbound event lines.
package protocol

import (
	"bytes"
	"strings"

	"github.com/timberwise/sortline"
)

const (
	// MaxTypeLen bounds the error type recorded from an ERROR frame
	MaxTypeLen = 19
	// MaxDescLen bounds the free-text description of an ERROR frame
	MaxDescLen = 29
)

// Kind tags a parsed inbound command
type Kind int

const (
	KindGate Kind = iota + 1
	KindMode
	KindReject
	KindStatus
	KindRaiseFault
	KindClearFault
	KindPause
	KindResume
	KindInspectionDone
	KindRecoverMode
)

// Command is one parsed inbound frame. Only the fields relevant to its
// Kind are set.
type Command struct {
	Kind Kind

	Gate      sortline.Grade
	Mode      sortline.Mode
	FaultType string
	Desc      string
	Target    string
}

// Parse decodes one trimmed inbound line into a Command. ok is false for
// blank or unrecognized input, which dispatch ignores.
func Parse(line []byte) (Command, bool) {
	line = bytes.TrimRight(line, " \r")
	if len(line) == 0 {
		return Command{}, false
	}

	if len(line) == 1 {
		switch line[0] {
		case '0':
			return Command{Kind: KindGate, Gate: sortline.Grade0}, true
		case '1':
			return Command{Kind: KindGate, Gate: sortline.GradeNeutral}, true
		case '2':
			return Command{Kind: KindGate, Gate: sortline.Grade2}, true
		case '3':
			return Command{Kind: KindGate, Gate: sortline.Grade3}, true
		case 'C':
			return Command{Kind: KindMode, Mode: sortline.ModeContinuous}, true
		case 'T':
			return Command{Kind: KindMode, Mode: sortline.ModeTrigger}, true
		case 'S':
			return Command{Kind: KindMode, Mode: sortline.ModeScanPhase}, true
		case 'X':
			return Command{Kind: KindMode, Mode: sortline.ModeIdle}, true
		case 'R':
			return Command{Kind: KindReject}, true
		case '?':
			return Command{Kind: KindStatus}, true
		}
		return Command{}, false
	}

	s := string(line)
	switch s {
	case "STATUS_REQUEST":
		return Command{Kind: KindStatus}, true
	case "PAUSE_SYSTEM":
		return Command{Kind: KindPause}, true
	case "RESUME_SYSTEM":
		return Command{Kind: KindResume}, true
	case "MANUAL_INSPECTION_COMPLETE":
		return Command{Kind: KindInspectionDone}, true
	}

	switch {
	case strings.HasPrefix(s, "ERROR:"):
		errType, desc := splitTypeDesc(s[len("ERROR:"):])
		if errType == "" {
			return Command{}, false
		}
		return Command{Kind: KindRaiseFault, FaultType: errType, Desc: desc}, true
	case strings.HasPrefix(s, "CLEAR_ERROR:"):
		errType := truncate(s[len("CLEAR_ERROR:"):], MaxTypeLen)
		if errType == "" {
			return Command{}, false
		}
		return Command{Kind: KindClearFault, FaultType: errType}, true
	case strings.HasPrefix(s, "RECOVER_MODE:"):
		target := s[len("RECOVER_MODE:"):]
		if target == "" {
			return Command{}, false
		}
		return Command{Kind: KindRecoverMode, Target: target}, true
	}

	return Command{}, false
}

// splitTypeDesc separates the "<type>:<desc>" payload of an ERROR frame,
// applying the wire truncation limits
func splitTypeDesc(payload string) (string, string) {
	idx := strings.IndexByte(payload, ':')
	if idx < 0 {
		return truncate(payload, MaxTypeLen), ""
	}
	return truncate(payload[:idx], MaxTypeLen), truncate(payload[idx+1:], MaxDescLen)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
