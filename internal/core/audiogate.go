package core

// Fixed wire contract for speaker audio: little-endian PCM16 mono at 24 kHz.
const (
	SampleRate     = 24000
	BytesPerSample = 2
	MinCommitMs    = 100
)

// AudioGate tracks buffered-but-uncommitted audio for one session and
// gates premature commit requests. Bytes are forwarded upstream as they
// arrive; only the count is retained here. Mutated solely by the session's
// client-inbound loop, so it needs no locking.
type AudioGate struct {
	buffered int
}

func (g *AudioGate) Append(n int) {
	g.buffered += n
}

func (g *AudioGate) Buffered() int {
	return g.buffered
}

// Reset clears the counter. Called after a commit is forwarded upstream
// and on session (re-)initialization, never on a rejected commit.
func (g *AudioGate) Reset() {
	g.buffered = 0
}

// AdmitCommit reports whether enough audio has accumulated for a turn.
func (g *AudioGate) AdmitCommit() bool {
	return g.buffered >= MinBytesFor(MinCommitMs)
}

// EstimateDurationMs converts a byte count to milliseconds of audio.
func EstimateDurationMs(byteCount int) int {
	return byteCount * 1000 / (SampleRate * BytesPerSample)
}

// MinBytesFor returns the byte count equivalent to ms of audio.
func MinBytesFor(ms int) int {
	return (SampleRate * ms / 1000) * BytesPerSample
}
