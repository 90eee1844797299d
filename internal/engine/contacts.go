// Contacts and fights: agents sharing a hex spend the tick together.
package engine

import (
	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/events"
	"github.com/talgya/cozy-town/internal/relations"
	"github.com/talgya/cozy-town/internal/world"
)

// moveAgents lets every living agent drift one step on the wander field.
func (s *Simulation) moveAgents(tick uint64) {
	for _, a := range s.registry.Living() {
		a.Position = s.wander.Step(uint64(a.ID), a.Position, tick)
	}
}

// occupancy groups living agents by hex, in registration order within each
// hex and first-seen order across hexes, so contact order is deterministic.
func (s *Simulation) occupancy() ([]world.HexCoord, map[world.HexCoord][]*agents.Agent) {
	byHex := make(map[world.HexCoord][]*agents.Agent)
	var order []world.HexCoord
	for _, a := range s.registry.Living() {
		if _, seen := byHex[a.Position]; !seen {
			order = append(order, a.Position)
		}
		byHex[a.Position] = append(byHex[a.Position], a)
	}
	return order, byHex
}

// processContacts registers one contact per unordered pair sharing a hex,
// then lets monsters fight whoever they met.
func (s *Simulation) processContacts(tick uint64) {
	order, byHex := s.occupancy()
	for _, hex := range order {
		group := byHex[hex]
		if len(group) < 2 {
			continue
		}
		x, y := hex.Center()
		point := relations.Point{X: x, Y: y}

		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, b := group[i], group[j]
				if !a.Alive || !b.Alive {
					continue
				}
				s.relations.RegisterContact(a.ID, b.ID, point, s.cfg.ContactSeconds)
				s.fight(a, b, tick)
			}
		}
	}
}

// fight trades one round of blows when exactly one side is a monster.
func (s *Simulation) fight(a, b *agents.Agent, tick uint64) {
	var monster, other *agents.Agent
	switch {
	case a.Kind == agents.KindMonster && b.Kind != agents.KindMonster:
		monster, other = a, b
	case b.Kind == agents.KindMonster && a.Kind != agents.KindMonster:
		monster, other = b, a
	default:
		return
	}

	if monster.TakeDamage(s.strikeDamage(other)) {
		s.bus.Emit(events.Event{Tick: tick, Type: events.MonsterKilled, A: uint64(other.ID), B: uint64(monster.ID)})
		s.bus.Emit(events.Event{Tick: tick, Type: events.PersonDied, A: uint64(monster.ID), Text: monster.Kind.String()})
		return
	}
	if other.TakeDamage(1 + s.rng.Intn(2)) {
		s.bus.Emit(events.Event{Tick: tick, Type: events.PersonDied, A: uint64(other.ID), B: uint64(monster.ID), Text: other.Kind.String()})
	}
}

// strikeDamage is how hard a townsperson hits back. Heroes fight properly;
// everyone else relies on courage.
func (s *Simulation) strikeDamage(a *agents.Agent) int {
	if a.Kind == agents.KindHero {
		return 3 + s.rng.Intn(2)
	}
	courage := agents.TraitMidpoint
	if a.Traits != nil {
		courage = a.Traits.Courage
	}
	return int(courage / 4)
}
