//go:build !((linux && cgo) || windows || darwin)

package audio

import (
	"log/slog"
	"time"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
)

// Available reports whether this build can drive the speaker.
const Available = false

// Player is the silent stand-in for builds without speaker support. It
// still checks that the music file exists so configuration errors surface
// the same way.
type Player struct {
	path     string
	log      *slog.Logger
	position time.Duration
	level    float64
}

// NewPlayer creates a player for the MP3 at path.
func NewPlayer(path string, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{path: path, log: logger.With("component", "audio")}
}

func (p *Player) Load() error {
	_, err := readTrack(p.path)
	return err
}

// Play always fails: there is no speaker in this build.
func (p *Player) Play() error {
	return lerrors.ErrAudioUnavailable
}

func (p *Player) Pause() {}

func (p *Player) Position() time.Duration { return p.position }

func (p *Player) SetPosition(d time.Duration) { p.position = d }

func (p *Player) Volume() float64 { return p.level }

func (p *Player) SetVolume(v float64) { p.level = v }

func (p *Player) SetLoop(bool) {}

func (p *Player) OnEnded(func()) {}

// Analyzer is always nil; the visualizer falls back to its idle animation.
func (p *Player) Analyzer() core.Analyzer { return nil }

func (p *Player) Close() error { return nil }

var _ core.MediaSource = (*Player)(nil)
