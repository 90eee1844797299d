package relations

import (
	"fmt"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
)

// Charge classifies a relationship's momentum.
type Charge uint8

const (
	ChargeNeutral Charge = iota
	ChargeAlpha          // strongly improving
	ChargeZeta           // strongly souring
)

func (c Charge) String() string {
	switch c {
	case ChargeAlpha:
		return "Alpha"
	case ChargeZeta:
		return "Zeta"
	default:
		return "Neutral"
	}
}

// MarshalText encodes the charge by name.
func (c Charge) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Point is a location in world space where a contact happened.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pair is the canonical key of an unordered agent pair: Low < High.
type Pair struct {
	Low  agents.AgentID
	High agents.AgentID
}

// PairOf returns the canonical pair for a and b in either order.
func PairOf(a, b agents.AgentID) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{Low: a, High: b}
}

func (p Pair) String() string {
	return fmt.Sprintf("%d-%d", p.Low, p.High)
}

// State is everything known about one pair of agents.
type State struct {
	IDLow  agents.AgentID `json:"id_low"`
	IDHigh agents.AgentID `json:"id_high"`

	Affinity   float64 `json:"affinity"`   // -100..100
	Attraction float64 `json:"attraction"` // 0..100
	Trust      float64 `json:"trust"`      // -100..100
	Irritation float64 `json:"irritation"` // 0..100

	SkinTime float64 `json:"skin_time"` // seconds of contact, never decreases
	Trend    float64 `json:"trend"`     // -1..1
	Charge   Charge  `json:"charge"`

	// Social stages latch on and never clear.
	IsAcquaintances bool `json:"is_acquaintances"`
	IsFriends       bool `json:"is_friends"`
	IsSoulmates     bool `json:"is_soulmates"`
	IsNemesis       bool `json:"is_nemesis"`

	// Romance stages nest: IsLovers implies IsDating implies IsCrushing.
	IsCrushing bool `json:"is_crushing"`
	IsDating   bool `json:"is_dating"`
	IsLovers   bool `json:"is_lovers"`

	LastContactPoint Point          `json:"last_contact_point"`
	LastContactTick  uint64         `json:"last_contact_tick"`
	LastContactPhase clock.DayPhase `json:"last_contact_phase"`
}

// Pair returns the state's canonical key.
func (s *State) Pair() Pair {
	return Pair{Low: s.IDLow, High: s.IDHigh}
}

// Other returns the partner of id in this pair.
func (s *State) Other(id agents.AgentID) agents.AgentID {
	if id == s.IDLow {
		return s.IDHigh
	}
	return s.IDLow
}

// InRomance reports whether any romance stage is held.
func (s *State) InRomance() bool {
	return s.IsCrushing || s.IsDating || s.IsLovers
}

// clearRomance drops every romance stage, leaving the metrics alone.
func (s *State) clearRomance() {
	s.IsCrushing = false
	s.IsDating = false
	s.IsLovers = false
}
