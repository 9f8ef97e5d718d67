package cli

import (
	"github.com/spf13/cobra"

	"github.com/tessro/lounge/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Launch interactive dashboard",
	Long: `Launch the interactive terminal dashboard.

The dashboard provides a live view with:
  • Now Playing - current track, position, phase and volume
  • Vibes - frequency bars following the music
  • Playlist - every track of the mix
  • History - tracks heard this session

Music starts by itself after music.autostart_ms unless you toggle it
first. Leaving the window or hiding the dashboard stops it at once.

Keyboard shortcuts:
  Space        Music on/off
  c            Copy the current track
  Tab          Switch panel
  Ctrl+Z       Hide (stops the music)
  ?            Help
  q, Ctrl+C    Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	return tui.Run(cmd.Context(), cfg, logger)
}
