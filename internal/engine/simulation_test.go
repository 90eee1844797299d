package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/events"
	"github.com/talgya/cozy-town/internal/relations"
	"github.com/talgya/cozy-town/internal/world"
)

func newTestSim(t *testing.T, population int) *Simulation {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Population = population
	s, err := NewSimulation(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func (s *Simulation) put(id agents.AgentID, kind agents.Kind, pos world.HexCoord, hp int) *agents.Agent {
	a := &agents.Agent{ID: id, Name: kind.String(), Kind: kind, HP: hp, MaxHP: hp, Position: pos, Alive: true}
	if kind != agents.KindMonster {
		tr := agents.NeutralTraits()
		a.Traits = &tr
	}
	s.addAgent(a)
	return a
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TownRadius = 0
	if _, err := NewSimulation(cfg); err == nil {
		t.Error("expected error for zero radius")
	}
	cfg = DefaultConfig()
	cfg.Relations.HighlightCapacity = 0
	if _, err := NewSimulation(cfg); err == nil {
		t.Error("expected relations config to be validated")
	}
}

func TestContactsOnlyWithinAHex(t *testing.T) {
	s := newTestSim(t, 4)
	s.put(1, agents.KindPeasant, world.HexCoord{}, 10)
	s.put(2, agents.KindPeasant, world.HexCoord{}, 10)
	s.put(3, agents.KindPeasant, world.HexCoord{Q: 2}, 10)

	s.processContacts(1)

	rel, ok := s.Relation(1, 2)
	if !ok {
		t.Fatal("no relation for agents sharing a hex")
	}
	if rel.SkinTime != clock.SecondsPerTick {
		t.Errorf("skin time = %v", rel.SkinTime)
	}
	x, y := world.HexCoord{}.Center()
	if rel.LastContactPoint != (relations.Point{X: x, Y: y}) {
		t.Errorf("contact point = %+v", rel.LastContactPoint)
	}
	if _, ok := s.Relation(1, 3); ok {
		t.Error("agents on different hexes made contact")
	}
}

func TestHeroesSlayMonsters(t *testing.T) {
	s := newTestSim(t, 4)
	hero := s.put(1, agents.KindHero, world.HexCoord{}, 20)
	monster := s.put(2, agents.KindMonster, world.HexCoord{}, 3)

	s.fight(hero, monster, 10)

	if monster.Alive {
		t.Fatalf("monster survived with %d hp", monster.HP)
	}
	if !hero.Alive || hero.HP != 20 {
		t.Errorf("a slain monster should not strike back: hero hp %d", hero.HP)
	}
	c := s.ledger.Snapshot()
	if c.MonstersSlain != 1 || c.Deaths != 1 || c.Population.Monsters != 0 {
		t.Errorf("ledger = %+v", c)
	}
}

func TestMonstersLeaveEachOtherAlone(t *testing.T) {
	s := newTestSim(t, 4)
	a := s.put(1, agents.KindMonster, world.HexCoord{}, 5)
	b := s.put(2, agents.KindMonster, world.HexCoord{}, 5)
	s.fight(a, b, 1)
	if a.HP != 5 || b.HP != 5 {
		t.Errorf("monsters fought: %d, %d", a.HP, b.HP)
	}
}

func TestDeathEndsRomance(t *testing.T) {
	s := newTestSim(t, 4)
	ada := s.put(1, agents.KindPeasant, world.HexCoord{}, 1)
	s.put(2, agents.KindPeasant, world.HexCoord{}, 10)
	monster := s.put(3, agents.KindMonster, world.HexCoord{}, 100)

	var got []relations.Stage
	s.OnMilestone(func(m relations.Milestone) { got = append(got, m.Stage) })

	for i := 0; i < 25; i++ {
		s.relations.RegisterContact(1, 2, relations.Point{}, clock.SecondsPerTick)
	}
	if !s.relations.HasActiveRomance(1) {
		t.Fatalf("no romance after courtship: %v", got)
	}

	var order []events.Type
	s.bus.Subscribe(func(e events.Event) {
		if e.Type == events.PersonDied || e.Type == events.RomanceMilestone {
			order = append(order, e.Type)
		}
	})

	s.fight(monster, ada, 99)

	if len(order) != 2 || order[0] != events.PersonDied || order[1] != events.RomanceMilestone {
		t.Errorf("late subscriber saw %v, want death before mourning", order)
	}
	if ada.Alive {
		t.Fatal("ada survived")
	}
	if s.relations.HasActiveRomance(2) {
		t.Error("widow still dating")
	}
	if got[len(got)-1] != relations.StageMourning {
		t.Errorf("last milestone = %v", got[len(got)-1])
	}

	var mourning bool
	for _, e := range s.RecentEvents(0) {
		if e.Type == events.RomanceMilestone && e.Text == "Mourning" {
			mourning = true
		}
	}
	if !mourning {
		t.Error("mourning never reached the bus")
	}
}

func TestPopulationRefillsMonsters(t *testing.T) {
	s := newTestSim(t, 20)
	s.Populate()
	for _, a := range s.registry.Living() {
		if a.Kind == agents.KindMonster {
			a.Alive = false
		}
	}

	tick := uint64(3 * clock.TicksPerSimDay)
	s.lastTick = tick
	s.processPopulation(tick)

	if n := s.registry.CountAlive(agents.KindMonster); n != 1 {
		t.Fatalf("monsters after one day = %d, want 1", n)
	}
	for _, a := range s.registry.Living() {
		if a.Kind == agents.KindMonster && world.Distance(a.Position, world.HexCoord{}) != s.cfg.TownRadius {
			t.Errorf("monster spawned at %+v, not on the rim", a.Position)
		}
	}
}

func TestFestivalDayBuildsReport(t *testing.T) {
	s := newTestSim(t, 12)
	s.Populate()

	s.TickDay(clock.TicksPerSimDay) // day 2
	if _, ok := s.LatestReport(); ok {
		t.Fatal("regular day produced a festival report")
	}

	s.TickDay(59 * clock.TicksPerSimDay) // day 60
	r, ok := s.LatestReport()
	if !ok {
		t.Fatal("no festival report")
	}
	if r.Kind != clock.UpdateFestivalMidyear || !strings.Contains(r.Text, "Midsummer Festival") {
		t.Errorf("report = %+v", r)
	}
}

func TestSimulationDeterministic(t *testing.T) {
	run := func() (string, SimStats) {
		s := newTestSim(t, 30)
		s.Populate()
		e := NewEngine()
		s.Attach(e)
		e.Advance(2 * clock.TicksPerSimDay)
		return s.HighlightText(120), s.Status().Stats
	}
	h1, st1 := run()
	h2, st2 := run()
	if h1 != h2 || st1 != st2 {
		t.Errorf("runs diverged:\n%v\n%v", st1, st2)
	}
	if st1.Relationships == 0 {
		t.Error("no one met anyone in two days")
	}
}

func TestEngineLayers(t *testing.T) {
	e := NewEngine()
	var ticks, hours, days int
	e.OnTick = func(uint64) { ticks++ }
	e.OnHour = func(uint64) { hours++ }
	e.OnDay = func(uint64) { days++ }

	e.Advance(2 * clock.TicksPerSimDay)

	if ticks != 2880 || hours != 48 || days != 2 {
		t.Errorf("ticks %d hours %d days %d", ticks, hours, days)
	}
}

func TestEngineRunStopsOnCancel(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop")
	}
	if e.Tick == 0 {
		t.Error("engine never ticked")
	}
}
