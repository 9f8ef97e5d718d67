package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/playlist"
	"github.com/tessro/lounge/internal/session"
	"github.com/tessro/lounge/internal/tail"
	"github.com/tessro/lounge/internal/wizard"
)

var (
	tracksAt   time.Duration
	tracksPick bool
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the tracks of the mix",
	Long: `List every track of the playlist with the offset it starts at.

Examples:
  lounge tracks               # List the built-in mix
  lounge tracks --at 1h2m30s  # Which track plays at this position
  lounge tracks --pick        # Pick a track interactively
  lounge tracks --playlist mix.yaml --json`,
	RunE: runTracks,
}

func init() {
	tracksCmd.Flags().DurationVar(&tracksAt, "at", -1, "resolve the track playing at this position")
	tracksCmd.Flags().BoolVar(&tracksPick, "pick", false, "choose a track interactively")
	rootCmd.AddCommand(tracksCmd)
}

// trackRow is the JSON form of a playlist entry.
type trackRow struct {
	Index   int     `json:"index"`
	Offset  float64 `json:"offset"`
	At      string  `json:"at"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Length  float64 `json:"length,omitempty"`
	Current bool    `json:"current,omitempty"`
}

func newTrackRow(pl *playlist.Playlist, i int) trackRow {
	t := pl.Track(i)
	r := trackRow{
		Index:  i + 1,
		Offset: t.Offset.Seconds(),
		At:     tail.Clock(t.Offset),
		Title:  t.Title,
		Source: t.Source,
	}
	if i+1 < pl.Len() {
		r.Length = (pl.Track(i+1).Offset - t.Offset).Seconds()
	}
	return r
}

func runTracks(cmd *cobra.Command, args []string) error {
	pl, err := session.LoadPlaylist(cfg)
	if err != nil {
		return err
	}

	switch {
	case tracksPick:
		return pickTrack(pl)
	case tracksAt >= 0:
		return showTrackAt(pl, tracksAt)
	default:
		return listTracks(pl)
	}
}

func showTrackAt(pl *playlist.Playlist, at time.Duration) error {
	i := pl.IndexAt(at)
	r := newTrackRow(pl, i)
	r.Current = true

	if JSONOutput() {
		return PrintJSON(r)
	}

	NormalF("%s at %s", pl.Track(i).Label(), tail.Clock(at))
	if next := pl.NextOffset(at); next > 0 {
		NormalF("  next track in %s", tail.Clock(next-at))
	} else {
		NormalF("  last track of the mix")
	}
	return nil
}

func pickTrack(pl *playlist.Playlist) error {
	track, err := wizard.NewInteractive().PromptTrack(pl.Tracks())
	if err != nil {
		return err
	}
	if track == nil {
		return nil
	}
	return showTrackAt(pl, track.Offset)
}

func listTracks(pl *playlist.Playlist) error {
	rows := make([]trackRow, pl.Len())
	for i := range rows {
		rows[i] = newTrackRow(pl, i)
	}

	if JSONOutput() {
		return PrintJSON(rows)
	}

	t := NewTable("#", "At", "Title", "Source", "Length")
	t.AlignRight(1, 2, 5)
	for _, r := range rows {
		length := "—"
		if r.Length > 0 {
			length = tail.Clock(time.Duration(r.Length * float64(time.Second)))
		}
		t.Row(
			fmt.Sprint(r.Index),
			r.At,
			TruncateString(r.Title, 40),
			TruncateString(r.Source, 32),
			length,
		)
	}
	t.Footer("", "", fmt.Sprintf("%d tracks", pl.Len()), musicSummary(pl.Last()), "")
	t.Flush()
	return nil
}

// musicSummary describes the configured music file for the table footer.
func musicSummary(last core.Track) string {
	if cfg.Music.Path == "" {
		return "no music file set"
	}
	info, err := os.Stat(cfg.Music.Path)
	if err != nil {
		return "music file missing"
	}
	return fmt.Sprintf("%s, last starts at %s", humanize.Bytes(uint64(info.Size())), tail.Clock(last.Offset))
}
