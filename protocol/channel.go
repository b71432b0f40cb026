package protocol

import "bytes"

const (
	// MaxLineLen is the longest inbound frame accepted, in bytes,
	// excluding the newline terminator
	MaxLineLen = 47
	// DrainThreshold is how many buffered bytes may remain after a
	// dispatch before the channel is considered stalled and flushed
	DrainThreshold = 100
)

// Channel buffers the inbound byte stream and hands out one frame at a
// time. It never allocates per line: extracted frames are copied into a
// fixed scratch buffer that stays valid until the next call.
type Channel struct {
	pending []byte
	line    [MaxLineLen]byte
}

// Feed appends raw bytes from the transport
func (ch *Channel) Feed(p []byte) {
	ch.pending = append(ch.pending, p...)
}

// NextLine consumes the next newline-terminated frame. The second return
// reports whether a frame was consumed at all; the returned slice is nil
// for ignored input (blank frames and frames over MaxLineLen).
func (ch *Channel) NextLine() ([]byte, bool) {
	idx := bytes.IndexByte(ch.pending, '\n')
	if idx < 0 {
		return nil, false
	}

	oversized := idx > MaxLineLen
	var n int
	if !oversized {
		n = copy(ch.line[:], ch.pending[:idx])
	}

	rest := copy(ch.pending, ch.pending[idx+1:])
	ch.pending = ch.pending[:rest]

	if oversized || n == 0 {
		return nil, true
	}
	return ch.line[:n], true
}

// Pending returns the number of buffered bytes not yet consumed
func (ch *Channel) Pending() int {
	return len(ch.pending)
}

// Drain discards everything buffered and returns how many bytes were
// dropped
func (ch *Channel) Drain() int {
	n := len(ch.pending)
	ch.pending = ch.pending[:0]
	return n
}
