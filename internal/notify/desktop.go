package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

// DesktopBackend forwards now-playing notices to the OS notification
// centre. Hints are terminal-only and hiding is left to the OS.
type DesktopBackend struct {
	log  *slog.Logger
	send func(title, message string) error
}

// NewDesktopBackend creates a backend posting through beeep.
func NewDesktopBackend(logger *slog.Logger) *DesktopBackend {
	if logger == nil {
		logger = slog.Default()
	}
	beeep.AppName = "lounge"
	return &DesktopBackend{
		log: logger.With("component", "notify"),
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (d *DesktopBackend) Show(n Notice) {
	if n.Kind != KindNowPlaying {
		return
	}
	if err := d.send(n.Title, n.Message); err != nil {
		d.log.Warn("desktop notification failed", "error", err)
	}
}

func (d *DesktopBackend) Hide() {}
