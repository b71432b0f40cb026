package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timberwise/sortline/controller"
)

func TestLineModel(t *testing.T) {
	line := NewLine(DefaultInchPerStep)

	require.False(t, line.Broken())

	line.FeedBoard(5.0)
	require.True(t, line.Broken())

	// run the board past the beam with margin for float accumulation
	for i := 0; i < 5010; i++ {
		line.Step()
	}
	assert.False(t, line.Broken())
	assert.InDelta(t, 5.01, line.Travel(), 0.001)

	line.SetEnabled(true)
	assert.True(t, line.Energized())

	require.NoError(t, line.SetAngle(2, 120))
	require.NoError(t, line.SetAngle(7, 45))
	assert.Equal(t, [4]int{0, 0, 120, 0}, line.Angles())

	// a second board prunes the one that already passed
	line.FeedBoard(3.0)
	require.True(t, line.Broken())
	assert.Len(t, line.boards, 1)
}

// TestFullCycleTranscript runs a 21 inch board through a complete scan
// cycle against the simulated line and checks the entire wire
// transcript, driven only by the physical model: the beam clears when
// the belt has actually carried the board past it.
func TestFullCycleTranscript(t *testing.T) {
	line := NewLine(DefaultInchPerStep)
	clk := &Clock{}
	out := &bytes.Buffer{}

	c, err := controller.New(controller.DefaultConfig(),
		controller.Hardware{Drive: line, Gates: line, Beam: line}, out, clk)
	require.NoError(t, err)

	tick := func(ms int) {
		for i := 0; i < ms; i++ {
			clk.Advance(1)
			c.Tick()
		}
	}
	drain := func() []string {
		s := out.String()
		out.Reset()
		if s == "" {
			return nil
		}
		return strings.Split(strings.TrimSuffix(s, "\r\n"), "\r\n")
	}

	require.NoError(t, c.Start())
	require.Equal(t, []string{"ARDUINO_READY"}, drain())
	assert.Equal(t, [4]int{90, 90, 90, 90}, line.Angles())

	c.Feed([]byte("S\n"))
	tick(1)
	require.Empty(t, drain())

	line.FeedBoard(21.0)
	tick(52)
	require.Equal(t, []string{"B"}, drain())

	tick(500 + 600 + 300)
	require.Equal(t, []string{"CAPTURE:1", "P:1"}, drain())
	// 600ms of fast cadence moved the 0.75in lead
	assert.InDelta(t, 0.75, line.Travel(), 0.01)

	tick(5000)
	require.Equal(t, []string{"RESUME_LIVE_FEED"}, drain())
	tick(5600 + 300)
	require.Equal(t, []string{"CAPTURE:2", "P:2"}, drain())

	tick(5000)
	require.Equal(t, []string{"RESUME_LIVE_FEED"}, drain())
	tick(5600 + 300)
	require.Equal(t, []string{"CAPTURE:3", "P:3"}, drain())

	tick(5000)
	require.Equal(t, []string{"RESUME_LIVE_FEED"}, drain())
	tick(5000 + 300)
	require.Equal(t, []string{"CAPTURE:4", "P:4"}, drain())
	assert.InDelta(t, 21.0, line.Travel(), 0.01)

	// tail-clear runs the board out; the report waits for the rearmed
	// debounce to commit the cleared edge
	tick(2400)
	require.Empty(t, drain())
	assert.InDelta(t, 24.0, line.Travel(), 0.01)
	assert.False(t, line.Energized())

	tick(51)
	require.Equal(t, []string{
		"L:35951 ms (Adjusted: 20951 ms) | Length: 26.19 in (Scan Phase)",
		"READY_FOR_NEXT_SCAN",
	}, drain())

	snap := c.Snapshot()
	assert.Equal(t, uint32(1), snap.Boards)
	assert.Equal(t, "SCAN_PHASE", snap.Mode)

	// the next board starts a new cycle without any host command
	line.FeedBoard(21.0)
	tick(52)
	require.Equal(t, []string{"B"}, drain())
	assert.True(t, c.Snapshot().ScanActive)
}
