package relations

import (
	"sort"

	"github.com/talgya/cozy-town/internal/agents"
)

// Romances indexes active (dating or lovers) partnerships per agent.
// Links are always symmetric: b is in a's set iff a is in b's.
type Romances struct {
	partners map[agents.AgentID]map[agents.AgentID]struct{}
}

// NewRomances creates an empty registry.
func NewRomances() *Romances {
	return &Romances{partners: make(map[agents.AgentID]map[agents.AgentID]struct{}, 256)}
}

// Register links a and b.
func (r *Romances) Register(a, b agents.AgentID) {
	r.link(a, b)
	r.link(b, a)
}

// Unregister removes the link between a and b, if any.
func (r *Romances) Unregister(a, b agents.AgentID) {
	r.unlink(a, b)
	r.unlink(b, a)
}

// Linked reports whether a and b are romantic partners.
func (r *Romances) Linked(a, b agents.AgentID) bool {
	_, ok := r.partners[a][b]
	return ok
}

// Has reports whether id has at least one active romance.
func (r *Romances) Has(id agents.AgentID) bool {
	return len(r.partners[id]) > 0
}

// Partners returns id's partners in ascending id order.
func (r *Romances) Partners(id agents.AgentID) []agents.AgentID {
	set := r.partners[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]agents.AgentID, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Remove drops id and every link to it, returning its former partners in
// ascending order.
func (r *Romances) Remove(id agents.AgentID) []agents.AgentID {
	former := r.Partners(id)
	for _, p := range former {
		r.unlink(p, id)
	}
	delete(r.partners, id)
	return former
}

func (r *Romances) link(a, b agents.AgentID) {
	set, ok := r.partners[a]
	if !ok {
		set = make(map[agents.AgentID]struct{}, 2)
		r.partners[a] = set
	}
	set[b] = struct{}{}
}

func (r *Romances) unlink(a, b agents.AgentID) {
	set, ok := r.partners[a]
	if !ok {
		return
	}
	delete(set, b)
	if len(set) == 0 {
		delete(r.partners, a)
	}
}
