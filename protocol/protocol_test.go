package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timberwise/sortline"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected Command
	}{
		{"Gate0", "0", Command{Kind: KindGate, Gate: sortline.Grade0}},
		{"Gate1IsNeutral", "1", Command{Kind: KindGate, Gate: sortline.GradeNeutral}},
		{"Gate2", "2", Command{Kind: KindGate, Gate: sortline.Grade2}},
		{"Gate3", "3", Command{Kind: KindGate, Gate: sortline.Grade3}},
		{"Continuous", "C", Command{Kind: KindMode, Mode: sortline.ModeContinuous}},
		{"Trigger", "T", Command{Kind: KindMode, Mode: sortline.ModeTrigger}},
		{"ScanPhase", "S", Command{Kind: KindMode, Mode: sortline.ModeScanPhase}},
		{"Idle", "X", Command{Kind: KindMode, Mode: sortline.ModeIdle}},
		{"Reject", "R", Command{Kind: KindReject}},
		{"StatusShort", "?", Command{Kind: KindStatus}},
		{"StatusLong", "STATUS_REQUEST", Command{Kind: KindStatus}},
		{"Pause", "PAUSE_SYSTEM", Command{Kind: KindPause}},
		{"Resume", "RESUME_SYSTEM", Command{Kind: KindResume}},
		{"InspectionDone", "MANUAL_INSPECTION_COMPLETE", Command{Kind: KindInspectionDone}},
		{
			"Error",
			"ERROR:CAMERA_DISCONNECT:top camera gone",
			Command{Kind: KindRaiseFault, FaultType: "CAMERA_DISCONNECT", Desc: "top camera gone"},
		},
		{
			"ErrorNoDesc",
			"ERROR:MODEL_FAILURE",
			Command{Kind: KindRaiseFault, FaultType: "MODEL_FAILURE"},
		},
		{
			"ErrorDescKeepsColons",
			"ERROR:RESOURCE_LOW:disk: 2% free",
			Command{Kind: KindRaiseFault, FaultType: "RESOURCE_LOW", Desc: "disk: 2% free"},
		},
		{
			"ClearError",
			"CLEAR_ERROR:MANUAL_INSPECTION",
			Command{Kind: KindClearFault, FaultType: "MANUAL_INSPECTION"},
		},
		{
			"RecoverMode",
			"RECOVER_MODE:IDLE",
			Command{Kind: KindRecoverMode, Target: "IDLE"},
		},
		{
			"TrailingCRAndSpaces",
			"STATUS_REQUEST  \r",
			Command{Kind: KindStatus},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := Parse([]byte(tt.in))
			require.True(t, ok)
			assert.Equal(t, tt.expected, cmd)
		})
	}
}

func TestParseIgnored(t *testing.T) {
	for _, in := range []string{
		"",
		"   \r",
		"Q",
		"4",
		"NOT_A_COMMAND",
		"ERROR:",
		"CLEAR_ERROR:",
		"RECOVER_MODE:",
	} {
		_, ok := Parse([]byte(in))
		assert.False(t, ok, "input %q should be ignored", in)
	}
}

func TestParseTruncation(t *testing.T) {
	longType := "A_VERY_LONG_ERROR_TYPE_NAME"
	longDesc := "this description runs well past the twenty-nine limit"

	cmd, ok := Parse([]byte("ERROR:" + longType + ":" + longDesc))
	require.True(t, ok)
	assert.Equal(t, longType[:MaxTypeLen], cmd.FaultType)
	assert.Len(t, cmd.FaultType, 19)
	assert.Equal(t, longDesc[:MaxDescLen], cmd.Desc)
	assert.Len(t, cmd.Desc, 29)

	cmd, ok = Parse([]byte("CLEAR_ERROR:" + longType))
	require.True(t, ok)
	assert.Equal(t, longType[:MaxTypeLen], cmd.FaultType)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "CAPTURE:3", CaptureLine(3))
	assert.Equal(t, "P:1", PauseLine(1))
	assert.Equal(t, "SYSTEM_PAUSED:HOST_PAUSE", PausedLine("HOST_PAUSE"))
	assert.Equal(t, "ERROR_CLEARED:MODEL_FAILURE", ClearedLine("MODEL_FAILURE"))
	assert.Equal(t,
		"SYSTEM_STATUS:mode=SCAN_PHASE,scan=true,paused=false,previous=IDLE,recovery=false",
		StatusLine(sortline.ModeScanPhase, sortline.ModeIdle, true, false, false))
	assert.Equal(t,
		"L:16800 ms (Adjusted: 1800 ms) | Length: 2.25 in (Scan Phase)",
		LengthLine(16800, 1800, 225))
}
