package config

import (
	"time"

	"github.com/tessro/lounge/internal/engine"
	"github.com/tessro/lounge/internal/notify"
	"github.com/tessro/lounge/internal/visualizer"
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	tn := visualizer.DefaultTuning()
	return &Config{
		Music: MusicConfig{
			FadeVolume:     0.15,
			FadeInMs:       1000,
			FadeInStepMs:   25,
			FadeOutMs:      1200,
			FadeOutStepMs:  50,
			PollIntervalMs: 1000,
			StartGuardS:    30,
			Loop:           true,
			AutoStartMs:    1500,
		},
		Visualizer: VisualizerConfig{
			Enabled:         true,
			FrameIntervalMs: 16,
			Exponent:        tn.Exponent,
			Bands:           tn.Bands[:],
		},
		Notify: NotifyConfig{
			Desktop:    false,
			HintMs:     2000,
			HintHideMs: 5000,
			DisplayMs:  6000,
		},
		Tail: TailConfig{
			Emoji:     true,
			Timestamp: true,
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Music
	if c.Music.FadeVolume == 0 {
		c.Music.FadeVolume = d.Music.FadeVolume
	}
	if c.Music.FadeInMs == 0 {
		c.Music.FadeInMs = d.Music.FadeInMs
	}
	if c.Music.FadeInStepMs == 0 {
		c.Music.FadeInStepMs = d.Music.FadeInStepMs
	}
	if c.Music.FadeOutMs == 0 {
		c.Music.FadeOutMs = d.Music.FadeOutMs
	}
	if c.Music.FadeOutStepMs == 0 {
		c.Music.FadeOutStepMs = d.Music.FadeOutStepMs
	}
	if c.Music.PollIntervalMs == 0 {
		c.Music.PollIntervalMs = d.Music.PollIntervalMs
	}

	// Visualizer
	if c.Visualizer.FrameIntervalMs == 0 {
		c.Visualizer.FrameIntervalMs = d.Visualizer.FrameIntervalMs
	}
	if c.Visualizer.Exponent == 0 {
		c.Visualizer.Exponent = d.Visualizer.Exponent
	}
	if len(c.Visualizer.Bands) == 0 {
		c.Visualizer.Bands = d.Visualizer.Bands
	}

	// Notify
	if c.Notify.HintMs == 0 {
		c.Notify.HintMs = d.Notify.HintMs
	}
	if c.Notify.HintHideMs == 0 {
		c.Notify.HintHideMs = d.Notify.HintHideMs
	}
	if c.Notify.DisplayMs == 0 {
		c.Notify.DisplayMs = d.Notify.DisplayMs
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// EngineOptions converts the music and visualizer sections into engine
// options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.FadeVolume = c.Music.FadeVolume
	opts.FadeIn = ms(c.Music.FadeInMs)
	opts.FadeInStep = ms(c.Music.FadeInStepMs)
	opts.FadeOut = ms(c.Music.FadeOutMs)
	opts.FadeOutStep = ms(c.Music.FadeOutStepMs)
	opts.PollInterval = ms(c.Music.PollIntervalMs)
	opts.StartGuard = time.Duration(c.Music.StartGuardS) * time.Second
	opts.Loop = c.Music.Loop
	opts.FrameInterval = ms(c.Visualizer.FrameIntervalMs)
	opts.Tuning = c.Tuning()
	return opts
}

// Tuning returns the visualizer tuning described by the config.
func (c *Config) Tuning() visualizer.Tuning {
	tn := visualizer.DefaultTuning()
	tn.Exponent = c.Visualizer.Exponent
	if len(c.Visualizer.Bands) == visualizer.BarCount {
		copy(tn.Bands[:], c.Visualizer.Bands)
	}
	return tn
}

// NotifyOptions converts the notify section.
func (c *Config) NotifyOptions() notify.Options {
	return notify.Options{
		HintDelay: ms(c.Notify.HintMs),
		HintHide:  ms(c.Notify.HintHideMs),
		Display:   ms(c.Notify.DisplayMs),
	}
}

// AutoStartDelay returns the automatic start delay, or 0 when disabled.
func (c *Config) AutoStartDelay() time.Duration {
	return ms(c.Music.AutoStartMs)
}
