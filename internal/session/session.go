// Package session assembles a listening session: the audio player, the
// playback engine and the notifier, all driven by one event loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tessro/lounge/internal/audio"
	"github.com/tessro/lounge/internal/config"
	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/engine"
	"github.com/tessro/lounge/internal/loop"
	"github.com/tessro/lounge/internal/notify"
	"github.com/tessro/lounge/internal/playlist"
)

// Session owns an engine and its notifier. Apart from Toggle, Blur, Hide
// and Run, its methods must be called on the session's scheduler or
// before Run.
type Session struct {
	sched     loop.Scheduler
	engine    *engine.Engine
	notifier  *notify.Notifier
	autoStart time.Duration
	log       *slog.Logger

	loop   *loop.Loop
	closer io.Closer

	autoTimer loop.Handle
	cbOnError []func(error)
}

// LoadPlaylist returns the configured playlist, or the built-in mix.
func LoadPlaylist(cfg *config.Config) (*playlist.Playlist, error) {
	if cfg.Music.Playlist == "" {
		return playlist.Default(), nil
	}
	return playlist.Load(cfg.Music.Playlist)
}

// New builds a session on sched. backend may be nil; the desktop backend is
// added when the config enables it.
func New(sched loop.Scheduler, media core.MediaSource, analyzer core.Analyzer, cfg *config.Config, backend notify.Backend, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pl, err := LoadPlaylist(cfg)
	if err != nil {
		return nil, err
	}

	var backends notify.Multi
	if backend != nil {
		backends = append(backends, backend)
	}
	if cfg.Notify.Desktop {
		backends = append(backends, notify.NewDesktopBackend(logger))
	}

	opts := cfg.EngineOptions()
	opts.Logger = logger

	s := &Session{
		sched:     sched,
		engine:    engine.New(sched, media, analyzer, pl, opts),
		notifier:  notify.New(sched, backends, cfg.NotifyOptions(), logger),
		autoStart: cfg.AutoStartDelay(),
		log:       logger.With("component", "session"),
	}

	s.engine.OnTrackChange(s.notifier.Announce)
	s.engine.OnPhaseChange(s.phaseChanged)
	return s, nil
}

// phaseChanged hides the notice as soon as a stop begins, before any
// fade-out runs.
func (s *Session) phaseChanged(from, to core.Phase) {
	switch to {
	case core.PhaseFadingOut, core.PhaseIdle, core.PhaseStopped:
		if from.Audible() {
			s.notifier.Hide()
		}
	}
}

// Open builds a session around the configured music file on a fresh loop.
func Open(cfg *config.Config, backend notify.Backend, logger *slog.Logger) (*Session, error) {
	player := audio.NewPlayer(cfg.Music.Path, logger)
	player.SetLoop(cfg.Music.Loop)
	if err := player.Load(); err != nil {
		return nil, err
	}

	var analyzer core.Analyzer
	if cfg.Visualizer.Enabled {
		analyzer = player.Analyzer()
	}

	l := loop.New(0)
	s, err := New(l, player, analyzer, cfg, backend, logger)
	if err != nil {
		_ = player.Close()
		return nil, err
	}
	s.loop = l
	s.closer = player
	return s, nil
}

// Engine returns the session's engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Notifier returns the session's notifier.
func (s *Session) Notifier() *notify.Notifier {
	return s.notifier
}

// OnError registers a callback for failed starts.
func (s *Session) OnError(cb func(error)) {
	s.cbOnError = append(s.cbOnError, cb)
}

// Start schedules the hint and the automatic start.
func (s *Session) Start() {
	s.notifier.ScheduleHint(func() bool {
		return s.engine.State().UserOverrode
	})

	if s.autoStart <= 0 {
		return
	}
	s.autoTimer = s.sched.After(s.autoStart, func() {
		s.autoTimer = nil
		if err := s.engine.AutoStart(); err != nil {
			s.fail(err)
		}
	})
}

// Toggle flips playback from any goroutine.
func (s *Session) Toggle() {
	s.sched.Post(func() {
		s.notifier.DismissHint()
		s.notifier.Hide()
		if err := s.engine.Toggle(); err != nil {
			s.fail(err)
		}
	})
}

// Blur reports focus loss from any goroutine.
func (s *Session) Blur() {
	s.sched.Post(s.engine.HandleBlur)
}

// Hide reports the UI being hidden from any goroutine.
func (s *Session) Hide() {
	s.sched.Post(s.engine.HandleHidden)
}

// Watch calls fn with a state snapshot every interval.
func (s *Session) Watch(interval time.Duration, fn func(core.PlaybackState)) loop.Handle {
	return s.sched.Repeat(interval, func() {
		fn(s.engine.State())
	})
}

// Close stops playback and cancels every pending timer.
func (s *Session) Close() {
	loop.Stop(s.autoTimer)
	s.autoTimer = nil
	s.notifier.Close()
	s.engine.Close()
}

// Run starts the session and processes its loop until ctx is done. It is
// only valid for sessions built with Open.
func (s *Session) Run(ctx context.Context) error {
	if s.loop == nil {
		return fmt.Errorf("session: Run without a loop")
	}

	s.sched.Post(s.Start)
	err := s.loop.Run(ctx)

	s.Close()
	if cerr := s.closer.Close(); cerr != nil {
		s.log.Warn("failed to close player", "error", cerr)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *Session) fail(err error) {
	s.log.Warn("playback failed", "error", err)
	for _, cb := range s.cbOnError {
		cb(err)
	}
}
