package playlist

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func abc(t *testing.T) *Playlist {
	t.Helper()
	p, err := New([]core.Track{
		{Offset: 0, Title: "A"},
		{Offset: 174 * time.Second, Title: "B"},
		{Offset: 311 * time.Second, Title: "C"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestResolve(t *testing.T) {
	p := abc(t)

	tests := []struct {
		position float64
		want     string
	}{
		{0, "A"},
		{173.9, "A"},
		{174, "B"},
		{200, "B"},
		{310.999, "B"},
		{311, "C"},
		{5000, "C"},
		{-5, "A"},
	}

	for _, tt := range tests {
		got := p.Resolve(seconds(tt.position))
		if got.Title != tt.want {
			t.Errorf("Resolve(%v) = %q, want %q", tt.position, got.Title, tt.want)
		}
	}
}

func TestResolveFloorWhenFirstOffsetIsLate(t *testing.T) {
	p, err := New([]core.Track{
		{Offset: 10 * time.Second, Title: "first"},
		{Offset: 20 * time.Second, Title: "second"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := p.Resolve(3 * time.Second); got.Title != "first" {
		t.Errorf("Resolve(3s) = %q, want first", got.Title)
	}
}

func TestNextOffset(t *testing.T) {
	p := abc(t)

	if got := p.NextOffset(seconds(10)); got != 174*time.Second {
		t.Errorf("NextOffset(10s) = %v, want 174s", got)
	}
	if got := p.NextOffset(seconds(400)); got != 0 {
		t.Errorf("NextOffset(400s) = %v, want 0", got)
	}
}

func TestNewRejectsBadPlaylists(t *testing.T) {
	tests := []struct {
		name   string
		tracks []core.Track
	}{
		{"empty", nil},
		{"negative", []core.Track{{Offset: -time.Second, Title: "x"}}},
		{"unsorted", []core.Track{{Offset: 10 * time.Second}, {Offset: 5 * time.Second}}},
		{"duplicate", []core.Track{{Offset: 10 * time.Second}, {Offset: 10 * time.Second}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.tracks)
			if !errors.Is(err, lerrors.ErrInvalidPlaylist) {
				t.Errorf("New() error = %v, want ErrInvalidPlaylist", err)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	tracks := []core.Track{{Offset: 0, Title: "A"}, {Offset: time.Minute, Title: "B"}}
	p, err := New(tracks)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tracks[0].Title = "changed"

	if p.Track(0).Title != "A" {
		t.Errorf("Track(0).Title = %q, want A", p.Track(0).Title)
	}
}

func TestDefault(t *testing.T) {
	p := Default()

	if p.Len() != 34 {
		t.Errorf("Len() = %d, want 34", p.Len())
	}
	if got := p.Resolve(0); got.Title != "Pokémon Center" {
		t.Errorf("Resolve(0) = %q", got.Title)
	}
	if got := p.Last(); got.Offset != 5661*time.Second || got.Title != "Memories Returned" {
		t.Errorf("Last() = %+v", got)
	}
	if got := p.Resolve(seconds(174)); got.Source != "Pokemon Black/White" {
		t.Errorf("Resolve(174).Source = %q", got.Source)
	}
	if len(p.Titles()) != p.Len() {
		t.Errorf("Titles() length = %d, want %d", len(p.Titles()), p.Len())
	}
}

func TestRandomStart(t *testing.T) {
	p := abc(t)
	r := rand.New(rand.NewPCG(1, 2))
	guard := 30 * time.Second

	for i := 0; i < 1000; i++ {
		got := p.RandomStart(r, guard)
		if got < 0 || got >= 281*time.Second {
			t.Fatalf("RandomStart() = %v, want in [0, 281s)", got)
		}
	}
}

func TestRandomStartShortPlaylist(t *testing.T) {
	p, err := New([]core.Track{{Offset: 0}, {Offset: 10 * time.Second}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r := rand.New(rand.NewPCG(1, 2))

	if got := p.RandomStart(r, 30*time.Second); got != 0 {
		t.Errorf("RandomStart() = %v, want 0", got)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.toml")
	content := `
[[track]]
offset = 0
title = "Intro"
source = "Live"

[[track]]
offset = 62.5
title = "Second"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	if got := p.Track(1).Offset; got != 62500*time.Millisecond {
		t.Errorf("Track(1).Offset = %v, want 62.5s", got)
	}
	if got := p.Track(0).Label(); got != "Intro (Live)" {
		t.Errorf("Track(0).Label() = %q", got)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	content := `tracks:
  - offset: 0
    title: One
  - offset: 90
    title: Two
    source: B-side
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := p.Resolve(95 * time.Second); got.Title != "Two" || got.Source != "B-side" {
		t.Errorf("Resolve(95s) = %+v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing) error = nil")
	}

	bad := filepath.Join(dir, "mix.json")
	if err := os.WriteFile(bad, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, lerrors.ErrInvalidPlaylist) {
		t.Errorf("Load(json) error = %v, want ErrInvalidPlaylist", err)
	}

	unsorted := filepath.Join(dir, "unsorted.toml")
	content := "[[track]]\noffset = 10\n[[track]]\noffset = 5\n"
	if err := os.WriteFile(unsorted, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unsorted); !errors.Is(err, lerrors.ErrInvalidPlaylist) {
		t.Errorf("Load(unsorted) error = %v, want ErrInvalidPlaylist", err)
	}
}
