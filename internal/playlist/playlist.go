// Package playlist holds the time-indexed track list of a mix and resolves
// a playback position to the track playing at that moment.
package playlist

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/tessro/lounge/internal/core"
	lerrors "github.com/tessro/lounge/internal/errors"
)

//go:embed songs.toml
var defaultSongs []byte

// entry is the on-disk shape of a track. Offsets are seconds.
type entry struct {
	Offset float64 `toml:"offset" yaml:"offset"`
	Title  string  `toml:"title" yaml:"title"`
	Source string  `toml:"source" yaml:"source"`
}

type file struct {
	Tracks []entry `toml:"track" yaml:"tracks"`
}

// Playlist is an immutable list of tracks sorted by strictly increasing
// offset.
type Playlist struct {
	tracks []core.Track
}

// New validates tracks and builds a Playlist. The slice is copied.
func New(tracks []core.Track) (*Playlist, error) {
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no tracks", lerrors.ErrInvalidPlaylist)
	}
	for i, t := range tracks {
		if t.Offset < 0 {
			return nil, fmt.Errorf("%w: track %d (%q) has negative offset %v", lerrors.ErrInvalidPlaylist, i, t.Title, t.Offset)
		}
		if i > 0 && t.Offset <= tracks[i-1].Offset {
			return nil, fmt.Errorf("%w: track %d (%q) at %v does not come after %v",
				lerrors.ErrInvalidPlaylist, i, t.Title, t.Offset, tracks[i-1].Offset)
		}
	}
	return &Playlist{tracks: append([]core.Track(nil), tracks...)}, nil
}

// Default returns the built-in mix playlist.
func Default() *Playlist {
	p, err := parse(defaultSongs, ".toml")
	if err != nil {
		panic(fmt.Sprintf("playlist: embedded songs are invalid: %v", err))
	}
	return p
}

// Load reads a playlist from a .toml, .yaml or .yml file.
func Load(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	p, err := parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func parse(data []byte, ext string) (*Playlist, error) {
	var f file
	switch strings.ToLower(ext) {
	case ".toml", "":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("%w: %v", lerrors.ErrInvalidPlaylist, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", lerrors.ErrInvalidPlaylist, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported playlist format %q", lerrors.ErrInvalidPlaylist, ext)
	}

	tracks := lo.Map(f.Tracks, func(e entry, _ int) core.Track {
		return core.Track{
			Offset: time.Duration(e.Offset * float64(time.Second)),
			Title:  e.Title,
			Source: e.Source,
		}
	})
	return New(tracks)
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}

// Tracks returns a copy of the tracks.
func (p *Playlist) Tracks() []core.Track {
	return append([]core.Track(nil), p.tracks...)
}

// Track returns the i-th track.
func (p *Playlist) Track(i int) core.Track {
	return p.tracks[i]
}

// Last returns the final track.
func (p *Playlist) Last() core.Track {
	return p.tracks[len(p.tracks)-1]
}

// IndexAt returns the index of the track playing at position. Positions
// before the first offset map to 0.
func (p *Playlist) IndexAt(position time.Duration) int {
	// First track whose offset is past position; the one before it wins.
	i := sort.Search(len(p.tracks), func(i int) bool {
		return p.tracks[i].Offset > position
	})
	if i == 0 {
		return 0
	}
	return i - 1
}

// Resolve returns the track with the greatest offset not after position.
func (p *Playlist) Resolve(position time.Duration) core.Track {
	return p.tracks[p.IndexAt(position)]
}

// NextOffset returns the offset of the track after the one at position, or
// 0 when position is in the last track.
func (p *Playlist) NextOffset(position time.Duration) time.Duration {
	i := p.IndexAt(position) + 1
	if i >= len(p.tracks) {
		return 0
	}
	return p.tracks[i].Offset
}

// RandomStart picks a start position in [0, last offset - guard). When the
// playlist is too short for the guard it returns 0.
func (p *Playlist) RandomStart(r *rand.Rand, guard time.Duration) time.Duration {
	span := p.Last().Offset - guard
	if span <= 0 {
		return 0
	}
	return time.Duration(r.Float64() * float64(span))
}

// Titles returns every track's label, in order.
func (p *Playlist) Titles() []string {
	return lo.Map(p.tracks, func(t core.Track, _ int) string {
		return t.Label()
	})
}
