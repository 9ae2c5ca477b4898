package event

import "sync"

// DefaultBufferCapacity bounds the diagnostic event buffer.
const DefaultBufferCapacity = 100

// Buffer is a bounded drop-oldest ring of received envelopes. It is pure
// diagnostics: losing it on restart is fine and it is never the system of
// record.
type Buffer struct {
	mu  sync.Mutex
	cap int
	evs []Envelope
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{cap: capacity}
}

// Append adds ev, evicting the oldest entry when full.
func (b *Buffer) Append(ev Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evs = append(b.evs, ev)
	if len(b.evs) > b.cap {
		b.evs = b.evs[1:]
	}
}

// Snapshot returns a copy of the buffered envelopes, oldest first.
func (b *Buffer) Snapshot() []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Envelope, len(b.evs))
	copy(out, b.evs)
	return out
}

// Len reports the current number of buffered envelopes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.evs)
}

// Clear empties the buffer and reports how many envelopes were removed.
func (b *Buffer) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.evs)
	b.evs = nil
	return n
}
