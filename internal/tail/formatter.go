package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/tessro/lounge/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Phase:     e.State.Phase.String(),
		Position:  Clock(e.State.Position),
		Volume:    e.State.Volume,
	}

	if track := eventTrack(e); track != nil {
		data.Title = track.Title
		data.Source = track.Source
	}
	if e.Type == EventStarted {
		data.Position = Clock(e.Position)
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Phase     string
	Title     string
	Source    string
	Position  string
	Volume    float64
	Error     string
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventStarted:
		return fmt.Sprintf("Music on at %s", Clock(e.Position))

	case EventPlaying:
		return "Faded in"

	case EventTrackChange:
		if e.Track != nil {
			return fmt.Sprintf("Now playing: %s", e.Track.Label())
		}
		return "Track changed"

	case EventFadingOut:
		return "Fading out"

	case EventStopped:
		return "Music off"

	case EventFailed:
		if e.Err != nil {
			return fmt.Sprintf("Playback blocked: %v", e.Err)
		}
		return "Playback blocked"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventStarted:
		return "▶️"
	case EventPlaying:
		return "🎷"
	case EventTrackChange:
		return "🎵"
	case EventFadingOut:
		return "🔉"
	case EventStopped:
		return "⏹️"
	case EventFailed:
		return "🔇"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventStarted:
		return "started"
	case EventPlaying:
		return "playing"
	case EventTrackChange:
		return "track_change"
	case EventFadingOut:
		return "fading_out"
	case EventStopped:
		return "stopped"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// eventTrack prefers the event's own track over the snapshot's.
func eventTrack(e Event) *core.Track {
	if e.Track != nil {
		return e.Track
	}
	return e.State.Track
}

// Clock formats d as m:ss, or h:mm:ss past the hour.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	h, m, s := s/3600, (s/60)%60, s%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
