// Agent spawning: creates townsfolk, heroes and monsters with names and
// personality traits.
package agents

import (
	"math/rand"

	"github.com/talgya/cozy-town/internal/world"
)

// FirstAgentID is the first id the spawner issues.
const FirstAgentID AgentID = 1000

// Spawner creates agents for the simulation. Deterministic for a given seed.
type Spawner struct {
	rng    *rand.Rand
	nextID AgentID
}

// NewSpawner creates an agent spawner with the given seed.
func NewSpawner(seed int64) *Spawner {
	return &Spawner{
		rng:    rand.New(rand.NewSource(seed + 300)),
		nextID: FirstAgentID,
	}
}

// SetNextID sets the next agent ID to be issued.
func (s *Spawner) SetNextID(id AgentID) {
	if id == 0 {
		id = FirstAgentID
	}
	s.nextID = id
}

// Mix is the number of agents of each kind in an initial population.
type Mix struct {
	Peasants      int
	Heroes        int
	Monsters      int
	TaxCollectors int
}

// DefaultMix scales a town of the given size: mostly peasants, a few heroes,
// a handful of monsters and one tax collector.
func DefaultMix(population int) Mix {
	if population < 4 {
		population = 4
	}
	heroes := population / 10
	if heroes < 1 {
		heroes = 1
	}
	monsters := population / 8
	if monsters < 1 {
		monsters = 1
	}
	return Mix{
		Peasants:      population - heroes - monsters - 1,
		Heroes:        heroes,
		Monsters:      monsters,
		TaxCollectors: 1,
	}
}

// SpawnPopulation creates the agents of a mix, scattered within radius of the
// town centre.
func (s *Spawner) SpawnPopulation(mix Mix, radius int, tick uint64) []*Agent {
	total := mix.Peasants + mix.Heroes + mix.Monsters + mix.TaxCollectors
	out := make([]*Agent, 0, total)
	add := func(kind Kind, n int) {
		for i := 0; i < n; i++ {
			out = append(out, s.Spawn(kind, s.randomHex(radius), tick))
		}
	}
	add(KindPeasant, mix.Peasants)
	add(KindHero, mix.Heroes)
	add(KindMonster, mix.Monsters)
	add(KindTaxCollector, mix.TaxCollectors)
	return out
}

// Spawn creates one agent of the given kind at a position.
func (s *Spawner) Spawn(kind Kind, pos world.HexCoord, tick uint64) *Agent {
	id := s.nextID
	s.nextID++

	a := &Agent{
		ID:       id,
		Kind:     kind,
		Position: pos,
		BornTick: tick,
		Alive:    true,
	}

	switch kind {
	case KindMonster:
		a.Name = monsterNames[s.rng.Intn(len(monsterNames))]
		a.MaxHP = 6 + s.rng.Intn(5)
	case KindHero:
		a.Name = s.generateName()
		a.MaxHP = 14 + s.rng.Intn(6)
		t := s.generateTraits()
		t.Courage = clampTrait(t.Courage + 3)
		a.Traits = &t
	default:
		a.Name = s.generateName()
		a.MaxHP = 8 + s.rng.Intn(4)
		t := s.generateTraits()
		a.Traits = &t
	}
	a.HP = a.MaxHP
	return a
}

// generateTraits draws each trait from a bell curve around the midpoint.
func (s *Spawner) generateTraits() Traits {
	draw := func() float64 {
		return clampTrait(TraitMidpoint + s.rng.NormFloat64()*1.8)
	}
	return Traits{
		Charm:      draw(),
		Kindness:   draw(),
		Wit:        draw(),
		Courage:    draw(),
		Warmth:     draw(),
		Flirtiness: draw(),
		Loyalty:    draw(),
	}
}

func (s *Spawner) randomHex(radius int) world.HexCoord {
	if radius <= 0 {
		return world.HexCoord{}
	}
	for {
		q := s.rng.Intn(2*radius+1) - radius
		r := s.rng.Intn(2*radius+1) - radius
		c := world.HexCoord{Q: q, R: r}
		if world.Distance(c, world.HexCoord{}) <= radius {
			return c
		}
	}
}

func (s *Spawner) generateName() string {
	first := firstNames[s.rng.Intn(len(firstNames))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

func clampTrait(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

var firstNames = []string{
	"Ada", "Bram", "Clover", "Dunstan", "Elsie", "Fenwick", "Ginny",
	"Hob", "Ivy", "Jory", "Kit", "Lark", "Mabel", "Ned", "Olive",
	"Pip", "Quill", "Rosie", "Silas", "Tansy", "Udo", "Violet",
	"Wendel", "Yarrow", "Zeb", "Bramble", "Cress", "Dilly", "Emmet",
}

var lastNames = []string{
	"Applewhite", "Bakewell", "Candlewick", "Dewberry", "Fernsby",
	"Goodbarrow", "Hollyhock", "Kettleby", "Larkspur", "Millstone",
	"Nettlefield", "Oakhollow", "Puddlefoot", "Quickthorn", "Rushmere",
	"Thistledown", "Underhill", "Wickham", "Whistlewood", "Yewbank",
}

var monsterNames = []string{
	"Bog Goblin", "Cellar Slime", "Moss Troll", "Night Gnawer",
	"Thorn Imp", "Marsh Wisp", "Gravel Golem",
}
