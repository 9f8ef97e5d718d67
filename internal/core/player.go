package core

import "time"

// MediaSource is the audio the engine drives. Implementations are only
// touched from the engine's event loop, except for the ended callback
// which may fire from any goroutine.
type MediaSource interface {
	Load() error
	Play() error
	Pause()

	Position() time.Duration
	SetPosition(d time.Duration)

	// Volume is linear in [0,1].
	Volume() float64
	SetVolume(v float64)

	SetLoop(loop bool)
	OnEnded(cb func())
}

// Analyzer produces byte-scaled frequency magnitudes, like a browser
// AnalyserNode. It is optional; a nil Analyzer means no reactive bars.
type Analyzer interface {
	// Frequencies fills and returns the current bins. The returned slice
	// is only valid until the next call.
	Frequencies() []uint8
}
