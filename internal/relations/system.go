// Package relations maintains the town's social graph. Contacts between
// agents slowly accumulate affinity, attraction, trust and irritation; a
// per-pair state machine turns those metrics into milestones (friendship,
// romance stages, rivalry) that other systems subscribe to.
//
// A System is not safe for concurrent use. The host must serialize
// RegisterContact, OnAgentDied and the query methods onto one goroutine, or
// guard them with its own lock.
package relations

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"github.com/talgya/cozy-town/internal/agents"
	"github.com/talgya/cozy-town/internal/clock"
)

// FactsProvider resolves agent ids to their traits and capabilities.
// Unknown and zero ids must not resolve.
type FactsProvider interface {
	Profile(id agents.AgentID) (agents.Profile, bool)
}

// Clock supplies the current tick for highlights and contact metadata.
type Clock interface {
	Now() uint64
}

// Milestone is the notification sent to listeners for every transition.
// For Jealousy, A is the agent starting the new romance and B the jealous
// prior partner; for Mourning, A is the deceased.
type Milestone struct {
	A     agents.AgentID `json:"a"`
	B     agents.AgentID `json:"b"`
	Stage Stage          `json:"stage"`
	Tick  uint64         `json:"tick"`
}

// Listener receives milestones synchronously, in emission order.
type Listener func(Milestone)

// System is the root of the relationship core.
type System struct {
	cfg   Config
	facts FactsProvider
	clock Clock

	model      Model
	eval       *Evaluator
	store      *Store
	romances   *Romances
	highlights *Highlights
	listeners  []Listener
}

// Option customizes a System.
type Option func(*System)

// WithClock stamps highlights and contacts with ticks from c.
func WithClock(c Clock) Option {
	return func(s *System) { s.clock = c }
}

// New creates a relationship system. The config is validated once here.
func New(cfg Config, facts FactsProvider, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("relations config: %w", err)
	}
	if facts == nil {
		return nil, fmt.Errorf("relations: nil facts provider")
	}
	s := &System{
		cfg:        cfg,
		facts:      facts,
		model:      NewModel(cfg),
		eval:       NewEvaluator(cfg),
		store:      NewStore(),
		romances:   NewRomances(),
		highlights: NewHighlights(cfg.HighlightCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Subscribe adds a listener. Listeners are called in subscription order.
func (s *System) Subscribe(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Config returns the configuration the system was built with.
func (s *System) Config() Config {
	return s.cfg
}

// RegisterContact records dt seconds of contact between a and b at point.
// Calls with a zero, unknown or identical id, or a dt that is not a positive
// finite number, are ignored and create no state.
func (s *System) RegisterContact(a, b agents.AgentID, point Point, dt float64) {
	if a == 0 || b == 0 || a == b || !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	pa, ok := s.facts.Profile(a)
	if !ok {
		return
	}
	pb, ok := s.facts.Profile(b)
	if !ok {
		return
	}

	now := s.now()
	rel := s.store.GetOrCreate(a, b)

	rel.SkinTime += dt
	rel.LastContactPoint = point
	rel.LastContactTick = now
	rel.LastContactPhase = clock.PhaseOf(now)

	delta := s.model.AffinityDelta(pa.Traits, pb.Traits, rel, dt)
	s.model.ApplyAffinity(rel, delta)
	s.model.ApplyTrend(rel, delta)
	s.model.ApplyIrritation(rel, dt)

	eligible := pa.RomanceEligible && pb.RomanceEligible
	if eligible {
		s.model.ApplyAttraction(pa.Traits, pb.Traits, rel, dt)
		s.model.ApplyTrust(pa.Traits, pb.Traits, rel, dt)
	}

	for _, tr := range s.eval.Evaluate(rel, eligible) {
		s.apply(rel, tr, now)
	}
}

// apply carries out the side effects of one transition on rel.
func (s *System) apply(rel *State, tr Transition, now uint64) {
	lo, hi := rel.IDLow, rel.IDHigh
	a, b := s.nameOf(lo), s.nameOf(hi)

	switch tr.Stage {
	case StageAcquaintance:
		s.push(now, CategorySocial, "%s and %s became acquaintances.", a, b)
	case StageFriend:
		s.push(now, CategorySocial, "%s and %s became friends.", a, b)
	case StageSoulmate:
		s.push(now, CategorySocial, "%s and %s formed a rare Soulmate Bond.", a, b)
	case StageNemesis:
		s.push(now, CategorySocial, "%s and %s became Nemeses.", a, b)
	case StageCrush:
		s.push(now, CategoryRomance, "%s and %s developed a crush!", a, b)
	case StageDating:
		s.romances.Register(lo, hi)
		s.checkJealousy(lo, hi, now)
		s.checkJealousy(hi, lo, now)
		s.push(now, CategoryRomance, "%s and %s started dating!", a, b)
	case StageLovers:
		s.push(now, CategoryRomance, "%s and %s became lovers!", a, b)
	case StageHeartbreak:
		s.romances.Unregister(lo, hi)
		if tr.From == StageLovers {
			s.push(now, CategoryRomance, "%s and %s broke up (were lovers).", a, b)
		} else {
			s.push(now, CategoryRomance, "%s and %s stopped dating.", a, b)
		}
	case StageCrushFaded:
		s.push(now, CategoryRomance, "%s and %s's crush faded.", a, b)
	}

	s.notify(Milestone{A: lo, B: hi, Stage: tr.Stage, Tick: now})
}

// checkJealousy sours every existing romance of agent other than the one
// with newPartner.
func (s *System) checkJealousy(agent, newPartner agents.AgentID, now uint64) {
	for _, partner := range s.romances.Partners(agent) {
		if partner == newPartner {
			continue
		}
		rel := s.store.GetOrCreate(agent, partner)
		rel.Irritation = clamp(rel.Irritation+s.cfg.JealousyIrritation, 0, 100)

		s.push(now, CategoryRomance, "%s feels jealous about %s's new romance.", s.nameOf(partner), s.nameOf(agent))
		s.notify(Milestone{A: agent, B: partner, Stage: StageJealousy, Tick: now})
	}
}

// OnAgentDied ends every romance of the deceased. Romance flags on those
// pairs are cleared; the metrics are left as they were.
func (s *System) OnAgentDied(id agents.AgentID) {
	if id == 0 || !s.romances.Has(id) {
		return
	}
	now := s.now()
	for _, partner := range s.romances.Remove(id) {
		rel := s.store.GetOrCreate(id, partner)
		had := rel.InRomance()
		rel.clearRomance()
		if had {
			s.push(now, CategoryRomance, "%s mourns the loss of %s.", s.nameOf(partner), s.nameOf(id))
			s.notify(Milestone{A: id, B: partner, Stage: StageMourning, Tick: now})
		}
	}
}

// Relation returns a copy of the state for a and b. The bool is false when
// the pair has never met, in which case the zero State is returned.
func (s *System) Relation(a, b agents.AgentID) (State, bool) {
	if rel, ok := s.store.Get(a, b); ok {
		return *rel, true
	}
	return State{}, false
}

// HasActiveRomance reports whether id is dating anyone.
func (s *System) HasActiveRomance(id agents.AgentID) bool {
	return s.romances.Has(id)
}

// RomancePartners returns id's current partners in ascending id order.
func (s *System) RomancePartners(id agents.AgentID) []agents.AgentID {
	return s.romances.Partners(id)
}

// TopByAbsTrend returns copies of the n relationships with the largest
// |trend|, strongest first. Ties order by pair.
func (s *System) TopByAbsTrend(n int) []State {
	if n <= 0 {
		return nil
	}
	all := make([]State, 0, s.store.Len())
	s.store.Each(func(rel *State) { all = append(all, *rel) })
	sort.Slice(all, func(i, j int) bool {
		ti, tj := abs(all[i].Trend), abs(all[j].Trend)
		if ti != tj {
			return ti > tj
		}
		if all[i].IDLow != all[j].IDLow {
			return all[i].IDLow < all[j].IDLow
		}
		return all[i].IDHigh < all[j].IDHigh
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// AppendRecentHighlights writes up to maxCount of the newest highlights to
// sink, one "- text" line each, oldest first.
func (s *System) AppendRecentHighlights(sink io.Writer, maxCount int) error {
	return s.highlights.AppendTo(sink, maxCount)
}

// Highlights returns up to maxCount of the newest highlights, oldest first.
func (s *System) Highlights(maxCount int) []Highlight {
	return s.highlights.Recent(maxCount)
}

// Len returns the number of pairs with any history.
func (s *System) Len() int {
	return s.store.Len()
}

// Each calls fn with a copy of every relationship, in unspecified order.
func (s *System) Each(fn func(State)) {
	s.store.Each(func(rel *State) { fn(*rel) })
}

func (s *System) push(now uint64, cat Category, format string, args ...any) {
	s.highlights.Push(Highlight{Tick: now, Category: cat, Text: fmt.Sprintf(format, args...)})
}

func (s *System) notify(m Milestone) {
	slog.Debug("relationship milestone", "a", m.A, "b", m.B, "stage", m.Stage, "tick", m.Tick)
	for _, l := range s.listeners {
		l(m)
	}
}

func (s *System) now() uint64 {
	if s.clock == nil {
		return 0
	}
	return s.clock.Now()
}

func (s *System) nameOf(id agents.AgentID) string {
	if p, ok := s.facts.Profile(id); ok && p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Agent#%d", id)
}
