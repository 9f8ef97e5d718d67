package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tessro/lounge/internal/session"
	"github.com/tessro/lounge/internal/tail"
)

var (
	playNoEmoji   bool
	playTimestamp bool
	playFormat    string
	playNow       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the mix and follow it",
	Long: `Play the mix without the dashboard, printing playback events as they
happen.

Music starts after music.autostart_ms, or at once with --now. On a
terminal, Enter toggles the music; Ctrl+C quits.

Events:
  - Music on (with the random start position)
  - Faded in
  - Track changes
  - Fading out / music off
  - Playback blocked`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playNoEmoji, "no-emoji", false, "disable emoji output")
	playCmd.Flags().BoolVarP(&playTimestamp, "timestamp", "t", false, "show timestamps")
	playCmd.Flags().StringVarP(&playFormat, "format", "f", "", "custom format template")
	playCmd.Flags().BoolVar(&playNow, "now", false, "start the music immediately")
	rootCmd.AddCommand(playCmd)
}

// eventRecord is the JSON form of a tail event.
type eventRecord struct {
	Type     string  `json:"type"`
	Time     string  `json:"time"`
	Phase    string  `json:"phase"`
	Title    string  `json:"title,omitempty"`
	Source   string  `json:"source,omitempty"`
	Position float64 `json:"position"`
	Volume   float64 `json:"volume"`
	Error    string  `json:"error,omitempty"`
}

func newEventRecord(e tail.Event) eventRecord {
	r := eventRecord{
		Type:     e.Type.String(),
		Time:     e.Timestamp.Format(time.RFC3339),
		Phase:    e.State.Phase.String(),
		Position: e.State.Position.Seconds(),
		Volume:   e.State.Volume,
	}
	track := e.Track
	if track == nil {
		track = e.State.Track
	}
	if track != nil {
		r.Title = track.Title
		r.Source = track.Source
	}
	if e.Type == tail.EventStarted {
		r.Position = e.Position.Seconds()
	}
	if e.Err != nil {
		r.Error = e.Err.Error()
	}
	return r
}

func newFormatter() *tail.Formatter {
	emoji := cfg.Tail.Emoji && !playNoEmoji
	if GetOutputMode() == OutputPlain {
		emoji = false
	}
	format := cfg.Tail.Format
	if playFormat != "" {
		format = playFormat
	}
	return tail.NewFormatter(
		tail.WithEmoji(emoji),
		tail.WithTimestamp(cfg.Tail.Timestamp || playTimestamp),
		tail.WithTemplate(format),
	)
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()

	if playNow {
		cfg.Music.AutoStartMs = 0
	}

	s, err := session.Open(cfg, nil, logger)
	if err != nil {
		return err
	}

	watcher := tail.NewWatcher(s.Engine(), 64)
	s.OnError(watcher.Failed)

	// Handle Ctrl+C gracefully
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
		watcher.Close()
	}()

	if playNow {
		s.Toggle()
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if !playNow && cfg.AutoStartDelay() == 0 && !JSONOutput() {
			fmt.Println("Press Enter to start the music.")
		}
		go toggleOnEnter(ctx, os.Stdin, s.Toggle)
	}

	formatter := newFormatter()
	for event := range watcher.Events() {
		if JSONOutput() {
			if err := WriteJSON(os.Stdout, newEventRecord(event)); err != nil {
				return err
			}
			continue
		}
		fmt.Println(formatter.Format(event))
	}

	return <-errCh
}

// toggleOnEnter calls toggle for every line read from r until ctx ends.
func toggleOnEnter(ctx context.Context, r io.Reader, toggle func()) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		toggle()
	}
}
