package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelFraming(t *testing.T) {
	var ch Channel

	// nothing complete yet
	ch.Feed([]byte("STATUS_RE"))
	_, ok := ch.NextLine()
	assert.False(t, ok)

	ch.Feed([]byte("QUEST\nS\n"))

	line, ok := ch.NextLine()
	require.True(t, ok)
	assert.Equal(t, "STATUS_REQUEST", string(line))

	line, ok = ch.NextLine()
	require.True(t, ok)
	assert.Equal(t, "S", string(line))

	_, ok = ch.NextLine()
	assert.False(t, ok)
	assert.Zero(t, ch.Pending())
}

func TestChannelBlankAndOversized(t *testing.T) {
	var ch Channel

	ch.Feed([]byte("\n"))
	line, ok := ch.NextLine()
	assert.True(t, ok)
	assert.Nil(t, line)

	ch.Feed([]byte(strings.Repeat("a", MaxLineLen+1) + "\nX\n"))
	line, ok = ch.NextLine()
	assert.True(t, ok)
	assert.Nil(t, line)

	// the frame after the oversized one still parses
	line, ok = ch.NextLine()
	require.True(t, ok)
	assert.Equal(t, "X", string(line))
}

func TestChannelMaxLengthFrame(t *testing.T) {
	var ch Channel

	frame := strings.Repeat("b", MaxLineLen)
	ch.Feed([]byte(frame + "\n"))

	line, ok := ch.NextLine()
	require.True(t, ok)
	assert.Equal(t, frame, string(line))
}

func TestChannelDrain(t *testing.T) {
	var ch Channel

	junk := strings.Repeat("x", DrainThreshold+20)
	ch.Feed([]byte(junk))
	assert.Greater(t, ch.Pending(), DrainThreshold)

	n := ch.Drain()
	assert.Equal(t, len(junk), n)
	assert.Zero(t, ch.Pending())

	// channel keeps working after a drain
	ch.Feed([]byte("?\n"))
	line, ok := ch.NextLine()
	require.True(t, ok)
	assert.Equal(t, "?", string(line))
}
