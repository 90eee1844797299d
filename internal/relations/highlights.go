package relations

import (
	"fmt"
	"io"
)

// Category groups highlights for the town log.
type Category uint8

const (
	CategorySocial Category = iota
	CategoryRomance
)

func (c Category) String() string {
	if c == CategoryRomance {
		return "Romance"
	}
	return "Social"
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Highlight is one human-readable line for periodic reports. Seq numbers
// highlights in push order, starting at 1.
type Highlight struct {
	Seq      uint64   `json:"seq"`
	Tick     uint64   `json:"tick"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
}

// Highlights is a bounded FIFO; the oldest entry is evicted first.
type Highlights struct {
	entries  []Highlight
	capacity int
	seq      uint64
}

// NewHighlights creates a log holding at most capacity entries.
func NewHighlights(capacity int) *Highlights {
	if capacity < 1 {
		capacity = 1
	}
	return &Highlights{entries: make([]Highlight, 0, capacity), capacity: capacity}
}

// Push stamps h with the next sequence number and appends it, evicting the
// oldest entry when full.
func (l *Highlights) Push(h Highlight) {
	l.seq++
	h.Seq = l.seq
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, h)
}

// Recent returns up to max of the newest entries, oldest first.
func (l *Highlights) Recent(max int) []Highlight {
	if max <= 0 {
		return nil
	}
	start := len(l.entries) - max
	if start < 0 {
		start = 0
	}
	out := make([]Highlight, len(l.entries)-start)
	copy(out, l.entries[start:])
	return out
}

// AppendTo writes up to max of the newest entries to w as "- text" lines.
func (l *Highlights) AppendTo(w io.Writer, max int) error {
	for _, h := range l.Recent(max) {
		if _, err := fmt.Fprintf(w, "- %s\n", h.Text); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (l *Highlights) Len() int {
	return len(l.entries)
}
