// Package events carries the append-only event stream of a play session.
// Systems emit into a Bus; subscribers see events in emission order.
package events

import "fmt"

// Type classifies an Event.
type Type uint8

const (
	PersonSpawned Type = iota
	PersonDied
	MonsterKilled
	SocialMilestone
	RomanceMilestone
	Note
)

var typeNames = [...]string{"PersonSpawned", "PersonDied", "MonsterKilled", "SocialMilestone", "RomanceMilestone", "Note"}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a notable occurrence in the town. A and B are agent ids (zero when
// unused); Text carries the agent kind for spawns/deaths and the stage name
// for milestones.
type Event struct {
	Tick   uint64 `json:"tick"`
	Type   Type   `json:"type"`
	A      uint64 `json:"a,omitempty"`
	B      uint64 `json:"b,omitempty"`
	Amount int    `json:"amount,omitempty"`
	Text   string `json:"text,omitempty"`
}

func (e Event) String() string {
	s := fmt.Sprintf("%d %s", e.Tick, e.Type)
	if e.Amount != 0 {
		s += fmt.Sprintf(" amt=%d", e.Amount)
	}
	if e.A != 0 {
		s += fmt.Sprintf(" a=%d", e.A)
	}
	if e.B != 0 {
		s += fmt.Sprintf(" b=%d", e.B)
	}
	if e.Text != "" {
		s += fmt.Sprintf(" %q", e.Text)
	}
	return s
}

// DefaultBufferSize is how many recent events a Bus keeps for the UI.
const DefaultBufferSize = 500

// Bus fans events out to subscribers and keeps a bounded recent buffer.
// Not safe for concurrent use; emit from the simulation goroutine.
type Bus struct {
	subscribers []func(Event)
	buffer      []Event
	maxBuffered int

	pending    []Event // emitted by subscribers during a delivery
	delivering bool
}

// NewBus creates a bus keeping up to maxBuffered events (DefaultBufferSize
// when non-positive).
func NewBus(maxBuffered int) *Bus {
	if maxBuffered <= 0 {
		maxBuffered = DefaultBufferSize
	}
	return &Bus{maxBuffered: maxBuffered}
}

// Subscribe registers fn to receive every subsequent event.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subscribers = append(b.subscribers, fn)
}

// Emit buffers e and delivers it to each subscriber in subscription order.
// Events emitted by a subscriber are queued and delivered after the current
// event has reached every subscriber, so all subscribers see the same order.
func (b *Bus) Emit(e Event) {
	b.buffer = append(b.buffer, e)
	if over := len(b.buffer) - b.maxBuffered; over > 0 {
		b.buffer = append(b.buffer[:0], b.buffer[over:]...)
	}
	if b.delivering {
		b.pending = append(b.pending, e)
		return
	}

	b.delivering = true
	defer func() {
		b.delivering = false
		b.pending = nil
	}()
	for {
		for _, fn := range b.subscribers {
			fn(e)
		}
		if len(b.pending) == 0 {
			return
		}
		e = b.pending[0]
		b.pending = b.pending[1:]
	}
}

// Recent returns up to n of the most recent events, oldest first.
func (b *Bus) Recent(n int) []Event {
	if n <= 0 || n > len(b.buffer) {
		n = len(b.buffer)
	}
	out := make([]Event, n)
	copy(out, b.buffer[len(b.buffer)-n:])
	return out
}

// Len returns the number of buffered events.
func (b *Bus) Len() int {
	return len(b.buffer)
}
