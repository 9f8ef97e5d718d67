// Package audio plays the mix through the system speaker and exposes its
// frequency spectrum for the visualizer.
//
// Speaker output needs cgo on Linux. Builds without it get a Player whose
// Play always fails with ErrAudioUnavailable, so the rest of the program
// keeps working silently.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"time"

	lerrors "github.com/tessro/lounge/internal/errors"
)

// SpeakerBuffer is the output latency the speaker is initialised with.
const SpeakerBuffer = 100 * time.Millisecond

// readTrack loads the whole music file into memory.
func readTrack(path string) ([]byte, error) {
	if path == "" {
		return nil, lerrors.ErrMusicNotFound
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", lerrors.ErrMusicNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read music: %w", err)
	}
	return data, nil
}

// gain converts a linear level in [0, 1] to the exponent and silence flag
// of a base-2 effects.Volume.
func gain(level float64) (exponent float64, silent bool) {
	if level <= 0 {
		return 0, true
	}
	if level > 1 {
		level = 1
	}
	return math.Log2(level), false
}

// nopCloser lets in-memory data feed a decoder that wants a ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
