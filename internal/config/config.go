package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	lerrors "github.com/tessro/lounge/internal/errors"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.loungerc, $XDG_CONFIG_HOME/lounge/config.toml, ~/.config/lounge/config.toml
func Load() (*Config, error) {
	path := findConfigFile()
	if path == "" {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from a specific file path. Keys missing from
// the file keep their defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", lerrors.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", lerrors.ErrInvalidConfig, err)
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultPath is where `config init` writes when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loungerc"
	}
	return filepath.Join(home, ".loungerc")
}

// Path returns the config file in use, or DefaultPath when none exists.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	return DefaultPath()
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".loungerc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "lounge", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// Encode writes cfg as TOML with the standard header.
func Encode(w io.Writer, cfg any) error {
	_, _ = fmt.Fprintln(w, "# Lounge Configuration")
	_, _ = fmt.Fprintln(w, "# https://github.com/tessro/lounge")
	_, _ = fmt.Fprintln(w, "")

	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := Encode(f, cfg); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Music
	if v := os.Getenv("LOUNGE_MUSIC_PATH"); v != "" {
		cfg.Music.Path = v
	}
	if v := os.Getenv("LOUNGE_MUSIC_PLAYLIST"); v != "" {
		cfg.Music.Playlist = v
	}
	if v := os.Getenv("LOUNGE_MUSIC_FADE_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Music.FadeVolume = f
		}
	}
	if v := os.Getenv("LOUNGE_MUSIC_LOOP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Music.Loop = b
		}
	}
	if v := os.Getenv("LOUNGE_MUSIC_AUTOSTART_MS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Music.AutoStartMs = i
		}
	}

	// Visualizer
	if v := os.Getenv("LOUNGE_VISUALIZER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Visualizer.Enabled = b
		}
	}

	// Notify
	if v := os.Getenv("LOUNGE_NOTIFY_DESKTOP"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notify.Desktop = b
		}
	}

	// TUI
	if v := os.Getenv("LOUNGE_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("LOUNGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOUNGE_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
