package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
	"github.com/talgya/cozy-town/internal/events"
	"github.com/talgya/cozy-town/internal/relations"
)

func TestLedgerCountsFromBus(t *testing.T) {
	bus := events.NewBus(0)
	l := NewLedger(bus)

	for i := 0; i < 3; i++ {
		bus.Emit(events.Event{Type: events.PersonSpawned, Text: agents.KindPeasant.String()})
	}
	bus.Emit(events.Event{Type: events.PersonSpawned, Text: agents.KindMonster.String()})
	bus.Emit(events.Event{Type: events.PersonDied, Text: agents.KindMonster.String()})
	bus.Emit(events.Event{Type: events.MonsterKilled})
	bus.Emit(events.Event{Type: events.PersonDied, Text: agents.KindHero.String()}) // never spawned
	bus.Emit(events.Event{Type: events.RomanceMilestone, Text: "Dating"})
	bus.Emit(events.Event{Type: events.SocialMilestone, Text: "Friend"})

	s := l.Snapshot()
	if s.Population.Peasants != 3 || s.Population.Monsters != 0 || s.Population.Heroes != 0 {
		t.Errorf("population = %+v", s.Population)
	}
	if s.Deaths != 2 || s.MonstersSlain != 1 {
		t.Errorf("deaths %d slain %d", s.Deaths, s.MonstersSlain)
	}
	if s.SocialMilestones != 1 || s.RomanceMilestones != 1 {
		t.Errorf("milestones %d/%d", s.SocialMilestones, s.RomanceMilestones)
	}
}

type fakeRelations struct {
	top        []relations.State
	highlights int
	err        error
}

func (f *fakeRelations) TopByAbsTrend(n int) []relations.State {
	if n < len(f.top) {
		return f.top[:n]
	}
	return f.top
}

func (f *fakeRelations) AppendRecentHighlights(w io.Writer, maxCount int) error {
	for i := 0; i < f.highlights && i < maxCount; i++ {
		fmt.Fprintf(w, "- highlight %d\n", i)
	}
	return f.err
}

func TestBuildHighlightCountByKind(t *testing.T) {
	rels := &fakeRelations{highlights: 20}
	cases := []struct {
		kind clock.UpdateKind
		want int
	}{
		{clock.UpdateFestivalMidyear, 6},
		{clock.UpdateFestivalYearEnd, 10},
		{clock.UpdateNewYear, 10},
		{clock.UpdateRegular, 10},
	}
	for _, c := range cases {
		out := Build(c.kind, Input{Relations: rels})
		if got := strings.Count(out, "- highlight"); got != c.want {
			t.Errorf("%v: %d highlights, want %d", c.kind, got, c.want)
		}
	}
}

func TestBuildSurvivesHighlightError(t *testing.T) {
	rels := &fakeRelations{highlights: 2, err: errors.New("sink closed")}
	out := Build(clock.UpdateFestivalMidyear, Input{Relations: rels})
	if strings.Count(out, "- highlight") != 2 || !strings.HasSuffix(strings.TrimSpace(out), "Bonds shift in the crowd.") {
		t.Errorf("report cut short:\n%s", out)
	}
}

func TestBuildContents(t *testing.T) {
	rels := &fakeRelations{top: []relations.State{
		{IDLow: 1000, IDHigh: 1001, Trend: -0.4, Charge: relations.ChargeZeta, Affinity: 12},
	}}
	names := map[agents.AgentID]string{1000: "Ada"}
	in := Input{
		Tick:      clock.TicksPerSimDay * 59,
		Counters:  Snapshot{Population: Population{Peasants: 1200, Heroes: 3}},
		Relations: rels,
		Name:      func(id agents.AgentID) string { return names[id] },
	}
	out := Build(clock.UpdateFestivalMidyear, in)

	for _, want := range []string{
		"World Update: Midsummer Festival",
		"Year 1, Day 60 (the 60th day of the year)",
		"1,203 souls",
		"Ada and Agent#1001: trend -0.40 (Zeta), affinity 12",
		"Bonds shift in the crowd.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if out := Build(clock.UpdateRegular, Input{}); !strings.Contains(out, "(no highlights yet)") {
		t.Errorf("report without relations:\n%s", out)
	}
}
