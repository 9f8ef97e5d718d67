package components

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/tessro/lounge/internal/core"
	"github.com/tessro/lounge/internal/notify"
	"github.com/tessro/lounge/internal/visualizer"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Autumn Leaves", 20, "Autumn Leaves"},
		{"Autumn Leaves", 9, "Autumn..."},
		{"Autumn Leaves", 3, "Aut"},
		{"Autumn Leaves", 0, ""},
		{"ルパン三世のテーマ", 8, "ルパ..."},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestSplitWidth(t *testing.T) {
	a, b := splitWidth("Short", "Src", 40)
	if a != "Short" || b != "Src" {
		t.Errorf("splitWidth kept %q/%q, want untouched", a, b)
	}

	a, b = splitWidth(strings.Repeat("x", 50), strings.Repeat("y", 50), 40)
	if w := runewidth.StringWidth(a) + runewidth.StringWidth(b); w > 40 {
		t.Errorf("splitWidth total width = %d, want <= 40", w)
	}
	if runewidth.StringWidth(b) < 10 {
		t.Errorf("source width = %d, want at least 10", runewidth.StringWidth(b))
	}
}

func TestGraph(t *testing.T) {
	got := Graph([]int{1, 3, 2, 0}, 3, 7)
	want := strings.Join([]string{
		"  █    ",
		"  █ █  ",
		"█ █ █  ",
	}, "\n")
	if got != want {
		t.Errorf("Graph() =\n%s\nwant\n%s", got, want)
	}

	if Graph(nil, 3, 10) != "" {
		t.Error("Graph(nil) should be empty")
	}
}

func TestBarsHeights(t *testing.T) {
	tn := visualizer.DefaultTuning()
	b := NewBars(tn)
	now := time.Unix(1700000000, 0)

	flat := b.Heights(false, now)
	for i, h := range flat {
		if h != tn.MinHeight {
			t.Errorf("stopped bar %d = %v, want %v", i, h, tn.MinHeight)
		}
	}

	idle := b.Heights(true, now)
	if len(idle) != visualizer.BarCount {
		t.Fatalf("idle frame has %d bars", len(idle))
	}

	frame := visualizer.Frame{28, 20, 12, 4}
	b.SetFrame(frame)
	if got := b.Heights(true, now); got[0] != 28 {
		t.Errorf("reactive frame ignored: %v", got)
	}
	if got := b.Heights(false, now); got[0] != tn.MinHeight {
		t.Errorf("stopped bars should stay flat, got %v", got)
	}
}

func TestPlaylistFollowsCurrent(t *testing.T) {
	tracks := make([]core.Track, 30)
	for i := range tracks {
		tracks[i] = core.Track{Offset: time.Duration(i) * time.Minute, Title: "Track", Source: "Mix"}
	}

	p := NewPlaylist()
	p.Render(tracks, 20, 60, 14, false)
	if p.offset == 0 {
		t.Error("playlist did not scroll to the current track")
	}

	p.ScrollUp()
	before := p.offset
	p.Render(tracks, 25, 60, 14, false)
	if p.offset != before {
		t.Error("manual scroll should stop following")
	}

	p.Follow()
	p.Render(tracks, 29, 60, 14, false)
	if want := len(tracks) - 9; p.offset != want {
		t.Errorf("offset = %d, want clamped to %d", p.offset, want)
	}
}

func TestNoticeRender(t *testing.T) {
	out := NewNotice().Render(notify.NowPlaying(core.Track{Title: "Lullaby", Source: "Birdland"}), 40)
	if !strings.Contains(out, "Now Playing") || !strings.Contains(out, "Lullaby (Birdland)") {
		t.Errorf("notice = %q", out)
	}
}

func TestHistoryRelativeTimes(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHistory()
	h.now = func() time.Time { return now }

	out := h.Render([]HistoryEntry{
		{Track: core.Track{Title: "Naima", Source: "Giant Steps"}, SeenAt: now.Add(-3 * time.Minute)},
	}, 70, 10, false)
	if !strings.Contains(out, "3 minutes ago") {
		t.Errorf("history missing relative time:\n%s", out)
	}
	if !strings.Contains(out, "Naima") {
		t.Errorf("history missing title:\n%s", out)
	}
}
