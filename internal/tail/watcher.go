package tail

import (
	"sync"
	"time"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/engine"
)

// EventType represents the type of playback event.
type EventType int

const (
	EventStarted EventType = iota
	EventPlaying
	EventTrackChange
	EventFadingOut
	EventStopped
	EventFailed
)

func (t EventType) String() string {
	return eventTypeName(t)
}

// Event represents a playback state change.
type Event struct {
	Type      EventType
	Timestamp time.Time
	State     core.PlaybackState
	// Track is set for EventTrackChange.
	Track *core.Track
	// Position is the start position for EventStarted.
	Position time.Duration
	Err      error
}

// Source is the part of the engine a Watcher listens to.
type Source interface {
	OnStarted(cb func(position time.Duration))
	OnStopped(cb func())
	OnTrackChange(cb func(track core.Track))
	OnPhaseChange(cb func(from, to core.Phase))
	State() core.PlaybackState
}

var _ Source = (*engine.Engine)(nil)

// Watcher turns engine callbacks into a stream of events. Callbacks run on
// the engine's loop; a slow reader loses events rather than stalling it.
type Watcher struct {
	src    Source
	events chan Event
	now    func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewWatcher subscribes to src.
func NewWatcher(src Source, buffer int) *Watcher {
	if buffer <= 0 {
		buffer = 16
	}
	w := &Watcher{
		src:    src,
		events: make(chan Event, buffer),
		now:    time.Now,
	}

	src.OnStarted(func(position time.Duration) {
		w.emit(Event{Type: EventStarted, Position: position})
	})
	src.OnStopped(func() {
		w.emit(Event{Type: EventStopped})
	})
	src.OnTrackChange(func(track core.Track) {
		w.emit(Event{Type: EventTrackChange, Track: &track})
	})
	src.OnPhaseChange(func(from, to core.Phase) {
		if t, ok := phaseEvent(from, to); ok {
			w.emit(Event{Type: t})
		}
	})
	return w
}

// Events returns the channel of playback events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Failed reports a start that could not produce sound.
func (w *Watcher) Failed(err error) {
	w.emit(Event{Type: EventFailed, Err: err})
}

// Close ends the event stream. Later callbacks are ignored.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.events)
	}
}

func (w *Watcher) emit(e Event) {
	e.Timestamp = w.now()
	e.State = w.src.State()

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.events <- e:
	default:
		// Drop event if channel is full
	}
}

// phaseEvent maps the transitions that have no dedicated callback.
func phaseEvent(from, to core.Phase) (EventType, bool) {
	switch {
	case from == core.PhaseFadingIn && to == core.PhasePlaying:
		return EventPlaying, true
	case to == core.PhaseFadingOut:
		return EventFadingOut, true
	default:
		return 0, false
	}
}
