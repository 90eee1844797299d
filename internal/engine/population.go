// Population dynamics: the monster hive and immigration keep the town near
// its target mix.
package engine

import (
	"log/slog"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/world"
)

// processPopulation spawns at most one monster at the town edge and one
// immigrant of each other kind per day, while their kind is below target.
func (s *Simulation) processPopulation(tick uint64) {
	edge := s.edgeHex(tick)
	if s.registry.CountAlive(agents.KindMonster) < s.target.Monsters {
		s.spawnAt(agents.KindMonster, edge, tick)
	}

	for _, k := range []struct {
		kind   agents.Kind
		target int
	}{
		{agents.KindPeasant, s.target.Peasants},
		{agents.KindHero, s.target.Heroes},
		{agents.KindTaxCollector, s.target.TaxCollectors},
	} {
		if s.registry.CountAlive(k.kind) < k.target {
			s.spawnAt(k.kind, world.HexCoord{}, tick)
		}
	}
}

func (s *Simulation) spawnAt(kind agents.Kind, pos world.HexCoord, tick uint64) {
	a := s.spawner.Spawn(kind, pos, tick)
	s.addAgent(a)
	slog.Debug("agent arrived", "name", a.DisplayName(), "kind", kind, "q", pos.Q, "r", pos.R)
}

// edgeHex picks a hex on the town's rim, rotating with the day.
func (s *Simulation) edgeHex(tick uint64) world.HexCoord {
	r := s.cfg.TownRadius
	dir := world.HexNeighborDirections[int(tick/clock.TicksPerSimDay)%len(world.HexNeighborDirections)]
	return world.HexCoord{Q: dir.Q * r, R: dir.R * r}
}
