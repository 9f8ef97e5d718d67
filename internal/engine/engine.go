// Package engine is the playback state machine: it fades music in and out,
// tracks which song of the mix is playing, and samples the analyser for the
// frequency bars.
//
// An Engine is not safe for concurrent use. Every method, and every callback
// it schedules, runs on the loop.Scheduler it was built with; other
// goroutines reach it through Scheduler.Post.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
	"github.com/tessro/lounge/internal/fade"
	"github.com/tessro/lounge/internal/loop"
	"github.com/tessro/lounge/internal/playlist"
	"github.com/tessro/lounge/internal/visualizer"
)

// Options tune the engine's timings.
type Options struct {
	FadeVolume    float64
	FadeIn        time.Duration
	FadeInStep    time.Duration
	FadeOut       time.Duration
	FadeOutStep   time.Duration
	PollInterval  time.Duration
	FrameInterval time.Duration
	// StartGuard keeps random starts this far before the last track.
	StartGuard time.Duration
	Loop       bool
	Tuning     visualizer.Tuning

	Rand   *rand.Rand
	Logger *slog.Logger
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		FadeVolume:    0.15,
		FadeIn:        time.Second,
		FadeInStep:    25 * time.Millisecond,
		FadeOut:       1200 * time.Millisecond,
		FadeOutStep:   50 * time.Millisecond,
		PollInterval:  time.Second,
		FrameInterval: 16 * time.Millisecond,
		StartGuard:    30 * time.Second,
		Loop:          true,
		Tuning:        visualizer.DefaultTuning(),
	}
}

// Engine drives a MediaSource through the playback phases.
type Engine struct {
	opts     Options
	sched    loop.Scheduler
	media    core.MediaSource
	analyzer core.Analyzer
	playlist *playlist.Playlist
	fader    *fade.Fader
	rng      *rand.Rand
	log      *slog.Logger

	state       core.PlaybackState
	autoStarted bool
	lastTrack   *core.Track

	poll   loop.Handle
	frames loop.Handle

	cbOnStarted     []func(position time.Duration)
	cbOnStopped     []func()
	cbOnTrackChange []func(track core.Track)
	cbOnPhaseChange []func(from, to core.Phase)
	cbOnBars        []func(frame visualizer.Frame)
}

// New creates an engine in the Idle phase. analyzer may be nil.
func New(sched loop.Scheduler, media core.MediaSource, analyzer core.Analyzer, pl *playlist.Playlist, opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6c6f756e6765))
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		opts:     opts,
		sched:    sched,
		media:    media,
		analyzer: analyzer,
		playlist: pl,
		fader:    fade.NewFader(sched),
		rng:      rng,
		log:      logger.With("component", "engine"),
		state: core.PlaybackState{
			Phase:        core.PhaseIdle,
			TargetVolume: opts.FadeVolume,
		},
	}

	media.SetLoop(opts.Loop)
	media.SetVolume(0)
	media.OnEnded(func() {
		sched.Post(e.HandleEnded)
	})
	return e
}

// OnStarted registers a callback for successful starts.
func (e *Engine) OnStarted(cb func(position time.Duration)) {
	e.cbOnStarted = append(e.cbOnStarted, cb)
}

// OnStopped registers a callback run once the music is fully off.
func (e *Engine) OnStopped(cb func()) {
	e.cbOnStopped = append(e.cbOnStopped, cb)
}

// OnTrackChange registers a callback for "now playing" changes.
func (e *Engine) OnTrackChange(cb func(track core.Track)) {
	e.cbOnTrackChange = append(e.cbOnTrackChange, cb)
}

// OnPhaseChange registers a callback for every phase transition.
func (e *Engine) OnPhaseChange(cb func(from, to core.Phase)) {
	e.cbOnPhaseChange = append(e.cbOnPhaseChange, cb)
}

// OnBars registers a callback for visualizer frames. A nil frame means the
// bars should return to their idle look.
func (e *Engine) OnBars(cb func(frame visualizer.Frame)) {
	e.cbOnBars = append(e.cbOnBars, cb)
}

// Phase returns the current phase.
func (e *Engine) Phase() core.Phase {
	return e.state.Phase
}

// Reactive reports whether an analyser is attached.
func (e *Engine) Reactive() bool {
	return e.analyzer != nil
}

// Playlist returns the playlist the engine resolves against.
func (e *Engine) Playlist() *playlist.Playlist {
	return e.playlist
}

// State returns a snapshot of the playback state.
func (e *Engine) State() core.PlaybackState {
	s := e.state
	if e.lastTrack != nil {
		t := *e.lastTrack
		s.Track = &t
	}
	return s
}

// RequestStart begins playback at a random position and fades in. It is
// valid from Idle and Stopped only.
func (e *Engine) RequestStart() error {
	from := e.state.Phase
	if from != core.PhaseIdle && from != core.PhaseStopped {
		return fmt.Errorf("%w: start while %s", lerrors.ErrInvalidTransition, from)
	}

	e.cancelTimers()

	if from == core.PhaseStopped {
		if err := e.media.Load(); err != nil {
			return fmt.Errorf("reload media: %w", err)
		}
		e.setPhase(core.PhaseIdle)
	}

	start := e.playlist.RandomStart(e.rng, e.opts.StartGuard)
	e.media.SetPosition(start)
	e.state.Position = start
	e.setVolume(0)
	e.state.TargetVolume = e.opts.FadeVolume

	// The indicator flips on before play resolves; a failure flips it back.
	e.setPhase(core.PhaseFadingIn)

	if err := e.media.Play(); err != nil {
		e.log.Warn("failed to start audio", "error", err)
		e.media.Pause()
		e.setVolume(0)
		e.setPhase(core.PhaseIdle)
		return fmt.Errorf("%w: %w", lerrors.ErrPlaybackBlocked, err)
	}

	e.log.Info("playback started", "position", start.Round(time.Second))
	for _, cb := range e.cbOnStarted {
		cb(start)
	}

	e.fader.Start(fade.Ramp{
		From:     0,
		To:       e.opts.FadeVolume,
		Duration: e.opts.FadeIn,
		Step:     e.opts.FadeInStep,
	}, e.guardedVolume(core.PhaseFadingIn), func() {
		if e.state.Phase == core.PhaseFadingIn {
			e.setPhase(core.PhasePlaying)
		}
	})

	e.poll = e.sched.Repeat(e.opts.PollInterval, e.checkTrack)
	if e.analyzer != nil {
		e.frames = e.sched.Repeat(e.opts.FrameInterval, e.sampleBars)
	}
	return nil
}

// RequestStop turns the music off. An instant stop takes effect before it
// returns; otherwise the volume fades to zero first. It is valid from
// FadingIn and Playing only.
func (e *Engine) RequestStop(instant bool) error {
	if !e.state.Phase.Audible() {
		return fmt.Errorf("%w: stop while %s", lerrors.ErrInvalidTransition, e.state.Phase)
	}

	e.cancelTimers()
	e.emitBars(visualizer.Static())

	if instant {
		e.finishStop()
		return nil
	}

	e.setPhase(core.PhaseFadingOut)
	e.fader.Start(fade.Ramp{
		From:     e.state.Volume,
		To:       0,
		Duration: e.opts.FadeOut,
		Step:     e.opts.FadeOutStep,
	}, e.guardedVolume(core.PhaseFadingOut), func() {
		if e.state.Phase == core.PhaseFadingOut {
			e.finishStop()
		}
	})
	return nil
}

// Toggle is the explicit user control. It disables automatic starts for
// the rest of the session.
func (e *Engine) Toggle() error {
	e.state.UserOverrode = true

	switch e.state.Phase {
	case core.PhaseFadingIn, core.PhasePlaying:
		return e.RequestStop(false)
	case core.PhaseFadingOut:
		e.cancelTimers()
		e.finishStop()
		return e.RequestStart()
	default:
		return e.RequestStart()
	}
}

// AutoStart is the automatic trigger. It fires at most once per session
// and never after the user has toggled playback.
func (e *Engine) AutoStart() error {
	if e.state.UserOverrode || e.autoStarted {
		return nil
	}
	if e.state.Phase != core.PhaseIdle && e.state.Phase != core.PhaseStopped {
		return nil
	}
	e.autoStarted = true
	return e.RequestStart()
}

// HandleEnded reacts to the media reaching end of stream.
func (e *Engine) HandleEnded() {
	if e.state.Phase.Audible() {
		e.log.Debug("media ended")
		_ = e.RequestStop(false)
	}
}

// HandleHidden reacts to the UI being hidden.
func (e *Engine) HandleHidden() {
	if e.state.Phase.Audible() {
		_ = e.RequestStop(true)
	}
}

// HandleBlur reacts to focus loss.
func (e *Engine) HandleBlur() {
	if e.state.Phase.Audible() {
		_ = e.RequestStop(true)
	}
}

// Close silences the media, cancels every timer and enters Stopped. A
// later RequestStart reloads the media.
func (e *Engine) Close() {
	e.cancelTimers()
	wasAudible := e.state.Phase.Audible() || e.state.Phase == core.PhaseFadingOut
	e.media.Pause()
	e.setVolume(0)
	e.setPhase(core.PhaseStopped)
	if wasAudible {
		e.emitStopped()
	}
}

func (e *Engine) finishStop() {
	e.media.Pause()
	e.setVolume(0)
	e.setPhase(core.PhaseIdle)
	e.log.Info("playback stopped")
	e.emitStopped()
}

func (e *Engine) emitStopped() {
	for _, cb := range e.cbOnStopped {
		cb()
	}
}

// cancelTimers clears every handle this engine owns. It runs before any
// new fade, poll or frame loop is installed.
func (e *Engine) cancelTimers() {
	e.fader.Cancel()
	loop.Stop(e.poll)
	e.poll = nil
	loop.Stop(e.frames)
	e.frames = nil
}

// guardedVolume returns a fade sink that drops samples once the engine has
// left phase.
func (e *Engine) guardedVolume(phase core.Phase) func(float64) {
	return func(v float64) {
		if e.state.Phase != phase {
			return
		}
		e.setVolume(v)
	}
}

func (e *Engine) setVolume(v float64) {
	e.state.Volume = v
	e.media.SetVolume(v)
}

func (e *Engine) setPhase(p core.Phase) {
	from := e.state.Phase
	if from == p {
		return
	}
	e.state.Phase = p
	e.log.Debug("phase change", "from", from, "to", p)
	for _, cb := range e.cbOnPhaseChange {
		cb(from, p)
	}
}

// checkTrack is the 1 Hz poll: read the position and announce the track
// when it differs from the last one announced.
func (e *Engine) checkTrack() {
	if e.state.Phase != core.PhasePlaying {
		return
	}

	e.state.Position = e.media.Position()
	track := e.playlist.Resolve(e.state.Position)
	if core.Same(&track, e.lastTrack) {
		return
	}

	e.lastTrack = &track
	e.log.Info("now playing", "title", track.Title, "source", track.Source)
	for _, cb := range e.cbOnTrackChange {
		cb(track)
	}
}

func (e *Engine) sampleBars() {
	if !e.state.Phase.Audible() || e.analyzer == nil {
		return
	}
	e.emitBars(visualizer.Heights(e.analyzer.Frequencies(), e.sched.Now(), e.opts.Tuning))
}

func (e *Engine) emitBars(f visualizer.Frame) {
	for _, cb := range e.cbOnBars {
		cb(f)
	}
}
