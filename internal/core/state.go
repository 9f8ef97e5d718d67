package core

import "time"

// Phase is the playback engine's lifecycle phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingIn
	PhasePlaying
	PhaseFadingOut
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingIn:
		return "fading-in"
	case PhasePlaying:
		return "playing"
	case PhaseFadingOut:
		return "fading-out"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Audible reports whether the phase counts as "playing" for presentation:
// the music is on, or coming on.
func (p Phase) Audible() bool {
	return p == PhaseFadingIn || p == PhasePlaying
}

// PlaybackState is a snapshot of the engine.
type PlaybackState struct {
	Phase        Phase         `json:"phase"`
	Volume       float64       `json:"volume"`
	TargetVolume float64       `json:"target_volume"`
	Position     time.Duration `json:"position"`
	UserOverrode bool          `json:"user_overrode"`
	Track        *Track        `json:"track"`
}

// IsPlaying is the projection every UI uses for its "playing" indicator.
func (s *PlaybackState) IsPlaying() bool {
	return s != nil && s.Phase.Audible()
}

// HasTrack returns true if a track has been resolved.
func (s *PlaybackState) HasTrack() bool {
	return s != nil && s.Track != nil
}

// TrackProgress returns how far into the current track the position is,
// given the offset of the following track (0 when it is the last one).
func (s *PlaybackState) TrackProgress(next time.Duration) float64 {
	if s == nil || s.Track == nil || next <= s.Track.Offset {
		return 0
	}
	span := next - s.Track.Offset
	done := s.Position - s.Track.Offset
	if done < 0 {
		return 0
	}
	if done > span {
		return 100
	}
	return float64(done) / float64(span) * 100
}
