// Package notify shows the single notice bubble: the startup hint and the
// "now playing" announcements. A Notifier decides what is shown and when;
// a Backend draws it.
package notify

import (
	"log/slog"
	"time"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/loop"
)

// Kind distinguishes the two notices.
type Kind int

const (
	KindHint Kind = iota
	KindNowPlaying
)

func (k Kind) String() string {
	switch k {
	case KindHint:
		return "hint"
	case KindNowPlaying:
		return "now_playing"
	default:
		return "unknown"
	}
}

// Notice is one message in the bubble.
type Notice struct {
	Kind    Kind
	Title   string
	Message string
}

// Hint is the notice shown shortly after startup.
func Hint() Notice {
	return Notice{
		Kind:    KindHint,
		Title:   "Music Assistant",
		Message: "Press space for some jazzy background vibes! 🎷",
	}
}

// NowPlaying is the notice for a track change.
func NowPlaying(t core.Track) Notice {
	return Notice{
		Kind:    KindNowPlaying,
		Title:   "Now Playing ♪",
		Message: t.Label(),
	}
}

// Backend renders notices. Show replaces whatever is visible.
type Backend interface {
	Show(n Notice)
	Hide()
}

// Options are the notice timings.
type Options struct {
	HintDelay time.Duration
	HintHide  time.Duration
	Display   time.Duration
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		HintDelay: 2 * time.Second,
		HintHide:  5 * time.Second,
		Display:   6 * time.Second,
	}
}

// Notifier owns the bubble. Like the engine it runs on a single
// loop.Scheduler and is not safe for concurrent use.
type Notifier struct {
	sched   loop.Scheduler
	backend Backend
	opts    Options
	log     *slog.Logger

	current   *Notice
	hintShown bool
	hintTimer loop.Handle
	hideTimer loop.Handle
}

// New creates a notifier drawing on backend.
func New(sched loop.Scheduler, backend Backend, opts Options, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		sched:   sched,
		backend: backend,
		opts:    opts,
		log:     logger.With("component", "notify"),
	}
}

// ScheduleHint shows the hint after the hint delay unless overridden
// reports true by then. The hint is shown at most once.
func (n *Notifier) ScheduleHint(overridden func() bool) {
	loop.Stop(n.hintTimer)
	n.hintTimer = n.sched.After(n.opts.HintDelay, func() {
		n.hintTimer = nil
		if n.hintShown || overridden() {
			return
		}
		n.hintShown = true
		n.show(Hint(), n.opts.HintHide)
	})
}

// DismissHint cancels a pending hint and hides a visible one.
func (n *Notifier) DismissHint() {
	loop.Stop(n.hintTimer)
	n.hintTimer = nil
	if n.current != nil && n.current.Kind == KindHint {
		n.Hide()
	}
}

// Announce shows the now-playing notice for t.
func (n *Notifier) Announce(t core.Track) {
	n.show(NowPlaying(t), n.opts.Display)
}

// Hide clears the bubble.
func (n *Notifier) Hide() {
	loop.Stop(n.hideTimer)
	n.hideTimer = nil
	if n.current == nil {
		return
	}
	n.current = nil
	n.backend.Hide()
}

// Current returns the visible notice, if any.
func (n *Notifier) Current() (Notice, bool) {
	if n.current == nil {
		return Notice{}, false
	}
	return *n.current, true
}

// Close cancels every pending timer.
func (n *Notifier) Close() {
	loop.Stop(n.hintTimer)
	n.hintTimer = nil
	loop.Stop(n.hideTimer)
	n.hideTimer = nil
}

func (n *Notifier) show(notice Notice, ttl time.Duration) {
	loop.Stop(n.hideTimer)
	n.current = &notice
	n.log.Debug("notice", "kind", notice.Kind, "message", notice.Message)
	n.backend.Show(notice)

	if ttl > 0 {
		n.hideTimer = n.sched.After(ttl, func() {
			n.hideTimer = nil
			n.Hide()
		})
	}
}

// Multi fans notices out to several backends.
type Multi []Backend

func (m Multi) Show(n Notice) {
	for _, b := range m {
		b.Show(n)
	}
}

func (m Multi) Hide() {
	for _, b := range m {
		b.Hide()
	}
}
