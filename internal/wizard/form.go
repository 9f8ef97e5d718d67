package wizard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/tessro/lounge/internal/config"
)

// ConfigAnswers holds the form's fields as entered.
type ConfigAnswers struct {
	MusicPath  string
	Playlist   string
	FadeVolume string
	AutoStart  string
	Loop       bool
	Visualizer bool
	Desktop    bool
	Theme      string
	LogLevel   string
}

// autoStartOptions maps the offered delays onto autostart_ms.
var autoStartOptions = []huh.Option[string]{
	huh.NewOption("Off", "0"),
	huh.NewOption("After 1.5 seconds", "1500"),
	huh.NewOption("After 5 seconds", "5000"),
	huh.NewOption("After 30 seconds", "30000"),
}

// AnswersFrom seeds the form from cfg.
func AnswersFrom(cfg *config.Config) ConfigAnswers {
	return ConfigAnswers{
		MusicPath:  cfg.Music.Path,
		Playlist:   cfg.Music.Playlist,
		FadeVolume: strconv.Itoa(int(cfg.Music.FadeVolume*100 + 0.5)),
		AutoStart:  strconv.Itoa(cfg.Music.AutoStartMs),
		Loop:       cfg.Music.Loop,
		Visualizer: cfg.Visualizer.Enabled,
		Desktop:    cfg.Notify.Desktop,
		Theme:      cfg.TUI.Theme,
		LogLevel:   cfg.Log.Level,
	}
}

// Apply writes the answers back onto cfg.
func (a ConfigAnswers) Apply(cfg *config.Config) error {
	vol, err := parsePercent(a.FadeVolume)
	if err != nil {
		return err
	}
	autoStart, err := strconv.Atoi(a.AutoStart)
	if err != nil || autoStart < 0 {
		return fmt.Errorf("invalid autostart delay: %q", a.AutoStart)
	}

	cfg.Music.Path = strings.TrimSpace(a.MusicPath)
	cfg.Music.Playlist = strings.TrimSpace(a.Playlist)
	cfg.Music.FadeVolume = vol
	cfg.Music.AutoStartMs = autoStart
	cfg.Music.Loop = a.Loop
	cfg.Visualizer.Enabled = a.Visualizer
	cfg.Notify.Desktop = a.Desktop
	cfg.TUI.Theme = a.Theme
	cfg.Log.Level = a.LogLevel
	return nil
}

func parsePercent(s string) (float64, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if err != nil {
		return 0, fmt.Errorf("volume must be a whole number: %q", s)
	}
	if n < 1 || n > 100 {
		return 0, fmt.Errorf("volume must be between 1 and 100, got %d", n)
	}
	return float64(n) / 100, nil
}

func validateFile(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			if optional {
				return nil
			}
			return errors.New("a path is required")
		}
		info, err := os.Stat(s)
		if err != nil {
			return fmt.Errorf("cannot read %s", s)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", s)
		}
		return nil
	}
}

// NewConfigForm builds the form editing a.
func NewConfigForm(a *ConfigAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Music file").
				Description("The MP3 mix to play").
				Value(&a.MusicPath).
				Validate(validateFile(false)),
			huh.NewInput().
				Title("Playlist").
				Description("TOML or YAML track list; leave empty for the built-in mix").
				Value(&a.Playlist).
				Validate(validateFile(true)),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Volume (%)").
				Description("Level the music fades in to").
				Value(&a.FadeVolume).
				Validate(func(s string) error {
					_, err := parsePercent(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Start automatically").
				Options(autoStartOptions...).
				Value(&a.AutoStart),
			huh.NewConfirm().
				Title("Loop the mix?").
				Value(&a.Loop),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Frequency bars?").
				Value(&a.Visualizer),
			huh.NewConfirm().
				Title("Desktop notifications on track change?").
				Value(&a.Desktop),
			huh.NewSelect[string]().
				Title("Theme").
				Options(huh.NewOptions("auto", "dark", "light")...).
				Value(&a.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.LogLevel),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// RunConfigForm asks for the common settings and applies them to cfg.
func RunConfigForm(cfg *config.Config) error {
	answers := AnswersFrom(cfg)
	if err := NewConfigForm(&answers).Run(); err != nil {
		return fmt.Errorf("config form cancelled: %w", err)
	}
	return answers.Apply(cfg)
}
