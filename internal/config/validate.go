package config

import (
	"errors"
	"fmt"
	"text/template"

	lerrors "github.com/tessro/lounge/internal/errors"
	"github.com/tessro/lounge/internal/visualizer"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Music.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("music: %w", err))
	}
	if err := c.Visualizer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("visualizer: %w", err))
	}
	if err := c.Notify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("notify: %w", err))
	}
	if err := c.Tail.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tail: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", lerrors.ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks MusicConfig for errors.
func (c *MusicConfig) Validate() error {
	var errs []error
	if c.FadeVolume <= 0 || c.FadeVolume > 1 {
		errs = append(errs, errors.New("fade_volume must be in (0, 1]"))
	}
	for name, v := range map[string]int{
		"fade_in_ms":       c.FadeInMs,
		"fade_in_step_ms":  c.FadeInStepMs,
		"fade_out_ms":      c.FadeOutMs,
		"fade_out_step_ms": c.FadeOutStepMs,
		"poll_interval_ms": c.PollIntervalMs,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	if c.FadeInStepMs > c.FadeInMs {
		errs = append(errs, errors.New("fade_in_step_ms must not exceed fade_in_ms"))
	}
	if c.FadeOutStepMs > c.FadeOutMs {
		errs = append(errs, errors.New("fade_out_step_ms must not exceed fade_out_ms"))
	}
	if c.FadeInMs > 0 && c.FadeOutMs <= c.FadeInMs {
		errs = append(errs, errors.New("fade_out_ms must be longer than fade_in_ms"))
	}
	if c.StartGuardS < 0 {
		errs = append(errs, errors.New("start_guard_s must be non-negative"))
	}
	if c.AutoStartMs < 0 {
		errs = append(errs, errors.New("autostart_ms must be non-negative"))
	}
	return errors.Join(errs...)
}

// Validate checks VisualizerConfig for errors.
func (c *VisualizerConfig) Validate() error {
	if c.FrameIntervalMs <= 0 {
		return errors.New("frame_interval_ms must be positive")
	}
	if c.Exponent <= 0 {
		return errors.New("exponent must be positive")
	}
	if len(c.Bands) != visualizer.BarCount {
		return fmt.Errorf("bands must have exactly %d entries", visualizer.BarCount)
	}
	for i, b := range c.Bands {
		if b.Start < 0 || b.End <= b.Start {
			return fmt.Errorf("band %d: range [%d, %d) is empty", i, b.Start, b.End)
		}
		if b.Sensitivity <= 0 {
			return fmt.Errorf("band %d: sensitivity must be positive", i)
		}
	}
	return nil
}

// Validate checks NotifyConfig for errors.
func (c *NotifyConfig) Validate() error {
	if c.HintMs < 0 || c.HintHideMs < 0 || c.DisplayMs < 0 {
		return errors.New("durations must be non-negative")
	}
	return nil
}

// Validate checks TailConfig for errors.
func (c *TailConfig) Validate() error {
	if c.Format == "" {
		return nil
	}
	if _, err := template.New("format").Parse(c.Format); err != nil {
		return fmt.Errorf("invalid format template: %w", err)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
		// valid
	default:
		return fmt.Errorf("invalid theme: %s (must be auto, dark, or light)", c.Theme)
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
