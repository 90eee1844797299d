// Simulation ties together all town systems and runs them each tick.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/events"
	"github.com/talgya/cozy-town/internal/relations"
	"github.com/talgya/cozy-town/internal/report"
	"github.com/talgya/cozy-town/internal/world"
)

// Config holds the host simulation settings.
type Config struct {
	Seed       int64
	Population int // initial town size
	TownRadius int // hexes from the town centre agents may roam

	// ContactSeconds is the contact duration credited per tick to every pair
	// sharing a hex.
	ContactSeconds float64

	Relations relations.Config
}

// DefaultConfig returns a small town.
func DefaultConfig() Config {
	return Config{
		Seed:           42,
		Population:     40,
		TownRadius:     4,
		ContactSeconds: clock.SecondsPerTick,
		Relations:      relations.DefaultConfig(),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Population < 4 {
		return fmt.Errorf("population %d below minimum of 4", c.Population)
	}
	if c.TownRadius < 1 {
		return fmt.Errorf("town radius %d must be at least 1", c.TownRadius)
	}
	if !(c.ContactSeconds > 0) {
		return errors.New("contact seconds must be positive")
	}
	return c.Relations.Validate()
}

// Simulation holds the complete town state and wires systems together.
// Ticks take the write lock; the exported query methods take the read lock,
// so an API server may call them from other goroutines.
type Simulation struct {
	mu sync.RWMutex

	cfg       Config
	target    agents.Mix
	registry  *agents.Registry
	relations *relations.System
	bus       *events.Bus
	ledger    *report.Ledger
	spawner   *agents.Spawner
	wander    *world.WanderField
	rng       *rand.Rand

	lastTick   uint64
	lastReport *Report
	stats      SimStats
}

// SimStats tracks aggregate town statistics, refreshed daily.
type SimStats struct {
	Alive         int `json:"alive"`
	Dead          int `json:"dead"`
	Relationships int `json:"relationships"`
	Romances      int `json:"romances"`
}

// Report is a rendered world update.
type Report struct {
	Tick uint64           `json:"tick"`
	Kind clock.UpdateKind `json:"-"`
	Name string           `json:"kind"`
	Text string           `json:"text"`
}

// NewSimulation creates an empty town. Call Populate to spawn its people.
func NewSimulation(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}

	s := &Simulation{
		cfg:      cfg,
		target:   agents.DefaultMix(cfg.Population),
		registry: agents.NewRegistry(),
		bus:      events.NewBus(events.DefaultBufferSize),
		spawner:  agents.NewSpawner(cfg.Seed),
		wander:   world.NewWanderField(cfg.Seed, cfg.TownRadius),
		rng:      rand.New(rand.NewSource(cfg.Seed + 700)),
	}

	rel, err := relations.New(cfg.Relations, s.registry, relations.WithClock(s))
	if err != nil {
		return nil, err
	}
	s.relations = rel
	s.ledger = report.NewLedger(s.bus)

	// Milestones go onto the bus; deaths on the bus end romances.
	rel.Subscribe(s.bridgeMilestone)
	s.bus.Subscribe(func(e events.Event) {
		if e.Type == events.PersonDied {
			s.relations.OnAgentDied(agents.AgentID(e.A))
		}
	})
	return s, nil
}

// Now returns the tick being processed. It is the relationship system's
// clock and is only read from inside a tick.
func (s *Simulation) Now() uint64 {
	return s.lastTick
}

// OnMilestone subscribes l to relationship milestones. Listeners run inside
// the tick, under the write lock, and must not call back into the
// Simulation.
func (s *Simulation) OnMilestone(l relations.Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations.Subscribe(l)
}

func (s *Simulation) bridgeMilestone(m relations.Milestone) {
	typ := events.SocialMilestone
	if m.Stage.Romantic() {
		typ = events.RomanceMilestone
	}
	s.bus.Emit(events.Event{Tick: m.Tick, Type: typ, A: uint64(m.A), B: uint64(m.B), Text: m.Stage.String()})
}

// Populate spawns the initial town.
func (s *Simulation) Populate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.spawner.SpawnPopulation(s.target, s.cfg.TownRadius, s.lastTick) {
		s.addAgent(a)
	}
	s.updateStats()
	slog.Info("town populated",
		"peasants", s.target.Peasants,
		"heroes", s.target.Heroes,
		"monsters", s.target.Monsters,
		"tax_collectors", s.target.TaxCollectors,
	)
}

func (s *Simulation) addAgent(a *agents.Agent) {
	s.registry.Add(a)
	s.bus.Emit(events.Event{Tick: s.lastTick, Type: events.PersonSpawned, A: uint64(a.ID), Text: a.Kind.String()})
}

// TickMinute runs every tick (1 sim-minute): movement, contacts and fights.
func (s *Simulation) TickMinute(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTick = tick
	s.moveAgents(tick)
	s.processContacts(tick)
}

// TickHour runs every sim-hour: the wounded recover a little.
func (s *Simulation) TickHour(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.registry.Living() {
		if a.HP < a.MaxHP {
			a.HP++
		}
	}
}

// TickDay runs every sim-day: population upkeep, statistics, daily summary
// and, on festival days, the world update report.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTick = tick
	s.processPopulation(tick)
	s.updateStats()

	counters := s.ledger.Snapshot()
	slog.Info("daily report",
		"tick", tick,
		"time", clock.SimTime(tick),
		"alive", s.stats.Alive,
		"dead", s.stats.Dead,
		"relationships", s.stats.Relationships,
		"romances", s.stats.Romances,
		"social_milestones", counters.SocialMilestones,
		"romance_milestones", counters.RomanceMilestones,
	)

	if kind, ok := clock.UpdateKindFor(tick); ok {
		r := s.buildReport(kind, tick)
		s.lastReport = &r
		s.bus.Emit(events.Event{Tick: tick, Type: events.Note, Text: report.Title(kind)})
		slog.Info("world update", "kind", kind, "tick", tick, "time", clock.SimTime(tick))
	}
}

func (s *Simulation) buildReport(kind clock.UpdateKind, tick uint64) Report {
	text := report.Build(kind, report.Input{
		Tick:      tick,
		Counters:  s.ledger.Snapshot(),
		Relations: s.relations,
		Name:      s.nameOf,
	})
	return Report{Tick: tick, Kind: kind, Name: kind.String(), Text: text}
}

func (s *Simulation) nameOf(id agents.AgentID) string {
	if a, ok := s.registry.Get(id); ok {
		return a.DisplayName()
	}
	return ""
}

func (s *Simulation) updateStats() {
	alive := 0
	for _, a := range s.registry.All() {
		if a.Alive {
			alive++
		}
	}
	romances := 0
	s.relations.Each(func(st relations.State) {
		if st.IsDating {
			romances++
		}
	})
	s.stats = SimStats{
		Alive:         alive,
		Dead:          s.registry.Len() - alive,
		Relationships: s.relations.Len(),
		Romances:      romances,
	}
}

// Attach wires the simulation's tick layers into e.
func (s *Simulation) Attach(e *Engine) {
	e.OnTick = s.TickMinute
	e.OnHour = s.TickHour
	e.OnDay = s.TickDay
}
