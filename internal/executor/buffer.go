package executor

import "bytes"

// limitedBuffer is an io.Writer that silently discards bytes once it has
// captured max of them, rather than growing without bound or erroring.
// Grounded on the same pattern in agentplexus-omniagent's sandbox runtime
// (limitedBuffer there serves the identical stdout/stderr-capture role).
type limitedBuffer struct {
	buf bytes.Buffer
	max int
}

func newLimitedBuffer(max int) *limitedBuffer {
	return &limitedBuffer{max: max}
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.max - b.buf.Len()
	if room <= 0 {
		return len(p), nil // overflow silently discarded, but report full write
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
