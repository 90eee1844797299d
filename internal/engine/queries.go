// Read-side accessors. Each takes the read lock and returns copies.
package engine

import (
	"strings"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/events"
	"github.com/talgya/cozy-town/internal/relations"
	"github.com/talgya/cozy-town/internal/report"
)

// Status is a point-in-time summary of the town.
type Status struct {
	Tick     uint64          `json:"tick"`
	SimTime  string          `json:"sim_time"`
	Phase    string          `json:"phase"`
	Stats    SimStats        `json:"stats"`
	Counters report.Snapshot `json:"counters"`
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastTick
}

// Status returns the town summary.
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Tick:     s.lastTick,
		SimTime:  clock.SimTime(s.lastTick),
		Phase:    clock.PhaseOf(s.lastTick).String(),
		Stats:    s.stats,
		Counters: s.ledger.Snapshot(),
	}
}

// Agent returns a copy of the agent with the given id.
func (s *Simulation) Agent(id agents.AgentID) (agents.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.registry.Get(id)
	if !ok {
		return agents.Agent{}, false
	}
	cp := *a
	if a.Traits != nil {
		t := *a.Traits
		cp.Traits = &t
	}
	return cp, true
}

// Agents returns copies of every agent, living or dead, in arrival order.
func (s *Simulation) Agents() []agents.Agent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.registry.All()
	out := make([]agents.Agent, len(all))
	for i, a := range all {
		out[i] = *a
		out[i].Traits = nil
	}
	return out
}

// Relation returns the relationship between a and b.
func (s *Simulation) Relation(a, b agents.AgentID) (relations.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relations.Relation(a, b)
}

// RomancePartners returns id's current partners in ascending id order.
func (s *Simulation) RomancePartners(id agents.AgentID) []agents.AgentID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relations.RomancePartners(id)
}

// Trending returns the n relationships with the strongest momentum.
func (s *Simulation) Trending(n int) []relations.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relations.TopByAbsTrend(n)
}

// Highlights returns up to n of the newest highlights, oldest first.
func (s *Simulation) Highlights(n int) []relations.Highlight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.relations.Highlights(n)
}

// HighlightText renders up to n highlights as "- text" lines.
func (s *Simulation) HighlightText(n int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var b strings.Builder
	_ = s.relations.AppendRecentHighlights(&b, n) // strings.Builder writes never fail
	return b.String()
}

// Relationships returns a copy of every relationship, for snapshots.
func (s *Simulation) Relationships() []relations.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]relations.State, 0, s.relations.Len())
	s.relations.Each(func(st relations.State) { out = append(out, st) })
	return out
}

// RecentEvents returns up to n of the newest bus events, oldest first.
func (s *Simulation) RecentEvents(n int) []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bus.Recent(n)
}

// Report renders a world update of the given kind for the current tick.
func (s *Simulation) Report(kind clock.UpdateKind) Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildReport(kind, s.lastTick)
}

// LatestReport returns the last festival report, if one has been built.
func (s *Simulation) LatestReport() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReport == nil {
		return Report{}, false
	}
	return *s.lastReport, true
}

// Name resolves an agent id to a display name.
func (s *Simulation) Name(id agents.AgentID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nameOf(id)
}
