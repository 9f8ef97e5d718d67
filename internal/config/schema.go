package config

import "github.com/tessro/lounge/internal/visualizer"

// Config is the root configuration structure.
type Config struct {
	Music      MusicConfig      `toml:"music" json:"music"`
	Visualizer VisualizerConfig `toml:"visualizer" json:"visualizer"`
	Notify     NotifyConfig     `toml:"notify" json:"notify"`
	Tail       TailConfig       `toml:"tail" json:"tail"`
	TUI        TUIConfig        `toml:"tui" json:"tui"`
	Log        LogConfig        `toml:"log" json:"log"`
}

// MusicConfig holds playback settings. Durations are milliseconds unless
// the key says otherwise.
type MusicConfig struct {
	Path           string  `toml:"path" json:"path"`
	Playlist       string  `toml:"playlist" json:"playlist,omitempty"`
	FadeVolume     float64 `toml:"fade_volume" json:"fade_volume"`
	FadeInMs       int     `toml:"fade_in_ms" json:"fade_in_ms"`
	FadeInStepMs   int     `toml:"fade_in_step_ms" json:"fade_in_step_ms"`
	FadeOutMs      int     `toml:"fade_out_ms" json:"fade_out_ms"`
	FadeOutStepMs  int     `toml:"fade_out_step_ms" json:"fade_out_step_ms"`
	PollIntervalMs int     `toml:"poll_interval_ms" json:"poll_interval_ms"`
	StartGuardS    int     `toml:"start_guard_s" json:"start_guard_s"`
	Loop           bool    `toml:"loop" json:"loop"`
	// AutoStartMs delays the automatic start; 0 disables it.
	AutoStartMs int `toml:"autostart_ms" json:"autostart_ms"`
}

// VisualizerConfig holds frequency bar settings.
type VisualizerConfig struct {
	Enabled         bool              `toml:"enabled" json:"enabled"`
	FrameIntervalMs int               `toml:"frame_interval_ms" json:"frame_interval_ms"`
	Exponent        float64           `toml:"exponent" json:"exponent"`
	Bands           []visualizer.Band `toml:"bands" json:"bands"`
}

// NotifyConfig holds notice settings.
type NotifyConfig struct {
	Desktop    bool `toml:"desktop" json:"desktop"`
	HintMs     int  `toml:"hint_ms" json:"hint_ms"`
	HintHideMs int  `toml:"hint_hide_ms" json:"hint_hide_ms"`
	DisplayMs  int  `toml:"display_ms" json:"display_ms"`
}

// TailConfig holds settings for the event stream of `lounge play`.
type TailConfig struct {
	Emoji     bool   `toml:"emoji" json:"emoji"`
	Timestamp bool   `toml:"timestamp" json:"timestamp"`
	Format    string `toml:"format" json:"format,omitempty"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme" json:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file,omitempty"`
}
