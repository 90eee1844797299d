package relations

import (
	"testing"

	"github.com/talgya/cozy-town/internal/agents"
)

// town is a small registry-backed fixture.
type town struct {
	reg *agents.Registry
	sys *System
	got []Milestone
	now uint64
}

func (tw *town) Now() uint64 { return tw.now }

func newTown(t *testing.T) *town {
	t.Helper()
	tw := &town{reg: agents.NewRegistry()}
	sys, err := New(DefaultConfig(), tw.reg, WithClock(tw))
	if err != nil {
		t.Fatal(err)
	}
	sys.Subscribe(func(m Milestone) { tw.got = append(tw.got, m) })
	tw.sys = sys
	return tw
}

// person registers a romance-eligible peasant with the given traits.
func (tw *town) person(id agents.AgentID, name string, traits agents.Traits) agents.AgentID {
	tr := traits
	tw.reg.Add(&agents.Agent{ID: id, Name: name, Kind: agents.KindPeasant, HP: 10, MaxHP: 10, Traits: &tr, Alive: true})
	return id
}

func (tw *town) monster(id agents.AgentID) agents.AgentID {
	tw.reg.Add(&agents.Agent{ID: id, Name: "Bog Goblin", Kind: agents.KindMonster, HP: 5, MaxHP: 5, Alive: true})
	return id
}

func (tw *town) count(stage Stage) int {
	n := 0
	for _, m := range tw.got {
		if m.Stage == stage {
			n++
		}
	}
	return n
}

// date puts a and b straight into a dating romance with the given metrics.
func (tw *town) date(a, b agents.AgentID, affinity, attraction, trust float64) *State {
	rel := tw.sys.store.GetOrCreate(a, b)
	rel.Affinity, rel.Attraction, rel.Trust = affinity, attraction, trust
	rel.SkinTime = 1000
	rel.IsAcquaintances, rel.IsFriends = true, true
	rel.IsCrushing, rel.IsDating = true, true
	tw.sys.romances.Register(a, b)
	return rel
}

func traitsWith(kindness float64) agents.Traits {
	t := agents.NeutralTraits()
	t.Kindness = kindness
	return t
}
