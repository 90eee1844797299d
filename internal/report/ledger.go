// Package report turns the town's live counters and relationship highlights
// into the world update text shown on festival days.
package report

import (
	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/events"
)

// Population counts living agents per kind.
type Population struct {
	Peasants      int `json:"peasants"`
	Heroes        int `json:"heroes"`
	Monsters      int `json:"monsters"`
	TaxCollectors int `json:"tax_collectors"`
}

// Total returns the number of living agents of every kind.
func (p Population) Total() int {
	return p.Peasants + p.Heroes + p.Monsters + p.TaxCollectors
}

func (p *Population) adjust(kind string, by int) {
	var n *int
	switch kind {
	case agents.KindPeasant.String():
		n = &p.Peasants
	case agents.KindHero.String():
		n = &p.Heroes
	case agents.KindMonster.String():
		n = &p.Monsters
	case agents.KindTaxCollector.String():
		n = &p.TaxCollectors
	default:
		return
	}
	*n = max(0, *n+by)
}

// Ledger keeps live counters derived from bus events. Like the Bus it feeds
// from, it is not safe for concurrent use.
type Ledger struct {
	pop           Population
	deaths        int
	monstersSlain int
	social        int
	romance       int
}

// NewLedger creates a ledger and, when bus is non-nil, subscribes it.
func NewLedger(bus *events.Bus) *Ledger {
	l := &Ledger{}
	if bus != nil {
		bus.Subscribe(l.Observe)
	}
	return l
}

// Observe folds one event into the counters.
func (l *Ledger) Observe(e events.Event) {
	switch e.Type {
	case events.PersonSpawned:
		l.pop.adjust(e.Text, 1)
	case events.PersonDied:
		l.pop.adjust(e.Text, -1)
		l.deaths++
	case events.MonsterKilled:
		l.monstersSlain++
	case events.SocialMilestone:
		l.social++
	case events.RomanceMilestone:
		l.romance++
	}
}

// Snapshot is a copy of the ledger's counters.
type Snapshot struct {
	Population        Population `json:"population"`
	Deaths            int        `json:"deaths"`
	MonstersSlain     int        `json:"monsters_slain"`
	SocialMilestones  int        `json:"social_milestones"`
	RomanceMilestones int        `json:"romance_milestones"`
}

// Snapshot returns the current counters.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Population:        l.pop,
		Deaths:            l.deaths,
		MonstersSlain:     l.monstersSlain,
		SocialMilestones:  l.social,
		RomanceMilestones: l.romance,
	}
}
