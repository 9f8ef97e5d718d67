package core

import (
	"fmt"
	"time"
)

// Track is one entry of a mix: a tune that begins at Offset inside the
// single long audio file.
type Track struct {
	Offset time.Duration `json:"offset"`
	Title  string        `json:"title"`
	Source string        `json:"source"`
}

// IsZero reports whether t is the zero Track.
func (t Track) IsZero() bool {
	return t.Offset == 0 && t.Title == "" && t.Source == ""
}

// Label returns "title (source)", or just the title when no source is set.
func (t Track) Label() string {
	if t.Source == "" {
		return t.Title
	}
	return fmt.Sprintf("%s (%s)", t.Title, t.Source)
}

// Same reports whether a and b are the same playlist entry. Entries are
// identified by offset since offsets are unique within a playlist.
func Same(a, b *Track) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Offset == b.Offset
}
