package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/lounge/internal/config"
	"github.com/tessro/lounge/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled bool
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptTrack launches the track picker if interactive mode is available.
// Returns the selected track, or nil if cancelled or not interactive.
func (i *Interactive) PromptTrack(tracks []core.Track) (*core.Track, error) {
	if !i.CanInteract() || len(tracks) == 0 {
		return nil, nil
	}
	return RunTrackPicker(tracks)
}

// PromptConfig runs the config form over cfg. It reports false when not
// interactive, leaving cfg untouched.
func (i *Interactive) PromptConfig(cfg *config.Config) (bool, error) {
	if !i.CanInteract() {
		return false, nil
	}
	if err := RunConfigForm(cfg); err != nil {
		return false, err
	}
	return true, nil
}
