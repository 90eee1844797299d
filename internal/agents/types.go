// Package agents provides the town's agent data model: identity, kind,
// personality traits, and the registry other systems resolve ids through.
package agents

import (
	"fmt"

	"github.com/talgya/cozy-town/internal/world"
)

// AgentID is a unique identifier for an agent. Zero is never issued.
type AgentID uint64

// Kind is the agent's role in town.
type Kind uint8

const (
	KindPeasant Kind = iota
	KindHero
	KindMonster
	KindTaxCollector
)

var kindNames = map[Kind]string{
	KindPeasant:      "Peasant",
	KindHero:         "Hero",
	KindMonster:      "Monster",
	KindTaxCollector: "TaxCollector",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// RomanceEligible reports whether agents of this kind take part in romance.
// Monsters never do.
func (k Kind) RomanceEligible() bool {
	return k != KindMonster
}

// TraitMidpoint is the neutral value on the 0–10 trait scale.
const TraitMidpoint = 5.0

// Traits is an agent's personality, each value on a 0–10 scale.
type Traits struct {
	Charm      float64 `json:"charm"`
	Kindness   float64 `json:"kindness"`
	Wit        float64 `json:"wit"`
	Courage    float64 `json:"courage"`
	Warmth     float64 `json:"warmth"`
	Flirtiness float64 `json:"flirtiness"`
	Loyalty    float64 `json:"loyalty"`
}

// NeutralTraits returns traits sitting at the midpoint on every axis.
func NeutralTraits() Traits {
	m := TraitMidpoint
	return Traits{Charm: m, Kindness: m, Wit: m, Courage: m, Warmth: m, Flirtiness: m, Loyalty: m}
}

// Agent is a person or creature living in (or raiding) the town.
type Agent struct {
	ID       AgentID        `json:"id"`
	Name     string         `json:"name"`
	Kind     Kind           `json:"kind"`
	HP       int            `json:"hp"`
	MaxHP    int            `json:"max_hp"`
	Position world.HexCoord `json:"position"`

	// Traits is nil for agents without an inspectable personality (monsters).
	Traits *Traits `json:"traits,omitempty"`

	BornTick uint64 `json:"born_tick"`
	Alive    bool   `json:"alive"`
}

// Profile is the read-only view of an agent that other systems consume.
type Profile struct {
	ID              AgentID
	Name            string
	Kind            Kind
	Traits          *Traits
	RomanceEligible bool
}

// Profile returns the agent's facts. Traits are copied.
func (a *Agent) Profile() Profile {
	p := Profile{
		ID:              a.ID,
		Name:            a.Name,
		Kind:            a.Kind,
		RomanceEligible: a.Kind.RomanceEligible(),
	}
	if a.Traits != nil {
		t := *a.Traits
		p.Traits = &t
	}
	return p
}

// DisplayName returns the agent's name, or Kind#id when unnamed.
func (a *Agent) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("%s#%d", a.Kind, a.ID)
}

// TakeDamage reduces HP and reports whether the agent died from it.
func (a *Agent) TakeDamage(dmg int) bool {
	if !a.Alive || dmg <= 0 {
		return false
	}
	a.HP -= dmg
	if a.HP <= 0 {
		a.HP = 0
		a.Alive = false
		return true
	}
	return false
}
