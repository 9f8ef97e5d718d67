//go:build (linux && cgo) || windows || darwin

package audio

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
)

// Available reports whether this build can drive the speaker.
const Available = true

// speakerRate is the rate the speaker runs at; tracks are resampled to it.
const speakerRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(speakerRate, speakerRate.N(SpeakerBuffer))
	})
	return speakerErr
}

// Player plays one MP3 file through the speaker. It implements
// core.MediaSource.
type Player struct {
	path string
	log  *slog.Logger

	mu       sync.Mutex
	data     []byte
	streamer beep.StreamSeekCloser
	format   beep.Format
	chain    *chain
	tap      *Tap
	volume   *effects.Volume
	ctrl     *beep.Ctrl
	queued   bool
	loop     bool
	level    float64
	onEnded  func()
	analyzer *Analyzer
}

// NewPlayer creates a player for the MP3 at path. Nothing is read until
// Load.
func NewPlayer(path string, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		path: path,
		log:  logger.With("component", "audio"),
		loop: true,
	}
}

// Load reads and decodes the file, replacing any previous stream.
func (p *Player) Load() error {
	data, err := readTrack(p.path)
	if err != nil {
		return err
	}

	streamer, format, err := mp3.Decode(nopCloser{bytes.NewReader(data)})
	if err != nil {
		return fmt.Errorf("decode %s: %w", p.path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked()
	p.data = data
	p.streamer = streamer
	p.format = format

	if p.tap == nil {
		p.tap = NewTap(nil, FFTSize)
		p.analyzer = NewAnalyzer(p.tap, DefaultAnalyzerOptions())
	} else {
		p.tap.Reset()
		p.analyzer.Reset()
	}

	var c *chain
	c = newChain(streamer, format.SampleRate, speakerRate, p.loop, p.tap, func() {
		// Called from the speaker goroutine with the speaker locked.
		go p.ended(c)
	})
	p.chain = c

	exponent, silent := gain(p.level)
	p.volume = &effects.Volume{
		Streamer: c,
		Base:     2,
		Volume:   exponent,
		Silent:   silent,
	}
	p.ctrl = &beep.Ctrl{Streamer: p.volume, Paused: true}

	p.log.Debug("music loaded",
		"path", p.path,
		"rate", format.SampleRate,
		"length", format.SampleRate.D(streamer.Len()).Round(time.Second))
	return nil
}

// Play resumes output, loading the file first if needed.
func (p *Player) Play() error {
	p.mu.Lock()
	loaded := p.streamer != nil
	p.mu.Unlock()
	if !loaded {
		if err := p.Load(); err != nil {
			return err
		}
	}

	if err := initSpeaker(); err != nil {
		return fmt.Errorf("%w: %w", lerrors.ErrAudioUnavailable, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.queued {
		p.queued = true
		speaker.Play(p.ctrl)
	}

	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// ended runs once each time a non-looping chain drains.
func (p *Player) ended(c *chain) {
	p.mu.Lock()
	if p.chain != c {
		p.mu.Unlock()
		return
	}
	cb := p.onEnded
	p.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
}

func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chain == nil {
		return 0
	}
	speaker.Lock()
	pos := p.chain.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// SetPosition seeks, clamping to the end of the stream. A drained stream
// plays again from the new position.
func (p *Player) SetPosition(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.chain == nil {
		return
	}
	speaker.Lock()
	err := p.chain.Seek(p.format.SampleRate.N(d))
	speaker.Unlock()
	if err != nil {
		p.log.Warn("seek failed", "position", d, "error", err)
	}
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// SetVolume sets the linear output level in [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.level = v
	if p.volume == nil {
		return
	}
	exponent, silent := gain(v)
	speaker.Lock()
	p.volume.Volume = exponent
	p.volume.Silent = silent
	speaker.Unlock()
}

// SetLoop switches looping, including for the loaded stream.
func (p *Player) SetLoop(loop bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.loop = loop
	if p.chain == nil {
		return
	}
	speaker.Lock()
	p.chain.SetLoop(loop)
	speaker.Unlock()
}

func (p *Player) OnEnded(cb func()) {
	p.mu.Lock()
	p.onEnded = cb
	p.mu.Unlock()
}

// Analyzer returns the spectrum of the decoded music, ahead of the volume
// stage. It is nil until the first Load.
func (p *Player) Analyzer() core.Analyzer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.analyzer == nil {
		return nil
	}
	return p.analyzer
}

// Close stops output and releases the decoded stream.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *Player) closeLocked() error {
	if p.ctrl != nil {
		speaker.Lock()
		p.ctrl.Paused = true
		p.ctrl.Streamer = nil
		speaker.Unlock()
	}
	p.ctrl = nil
	p.chain = nil
	p.queued = false
	p.volume = nil

	var err error
	if p.streamer != nil {
		err = p.streamer.Close()
		p.streamer = nil
	}
	return err
}

var _ core.MediaSource = (*Player)(nil)
