package audio

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// Tap passes audio through unchanged while keeping the most recent mono
// samples in a ring buffer for the analyser.
type Tap struct {
	s beep.Streamer

	mu   sync.Mutex
	ring []float64
	pos  int
}

// NewTap wraps s with a ring of size samples.
func NewTap(s beep.Streamer, size int) *Tap {
	return &Tap{s: s, ring: make([]float64, size)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.mu.Lock()
	for _, s := range samples[:n] {
		t.ring[t.pos] = (s[0] + s[1]) / 2
		t.pos = (t.pos + 1) % len(t.ring)
	}
	t.mu.Unlock()
	return n, ok
}

func (t *Tap) Err() error {
	return t.s.Err()
}

// Samples returns the last n samples, oldest first.
func (t *Tap) Samples(n int) []float64 {
	size := len(t.ring)
	if n > size {
		n = size
	}
	out := make([]float64, n)
	t.mu.Lock()
	start := (t.pos - n + size) % size
	for i := range out {
		out[i] = t.ring[(start+i)%size]
	}
	t.mu.Unlock()
	return out
}

// Reset zeroes the ring.
func (t *Tap) Reset() {
	t.mu.Lock()
	clear(t.ring)
	t.pos = 0
	t.mu.Unlock()
}
