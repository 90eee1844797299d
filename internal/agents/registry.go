package agents

// Registry indexes every agent that has ever lived in the session.
// Dead agents stay registered so their names still resolve in reports.
type Registry struct {
	byID  map[AgentID]*Agent
	order []*Agent
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[AgentID]*Agent, 128)}
}

// Add registers an agent. Re-adding an id replaces the earlier entry.
func (r *Registry) Add(a *Agent) {
	if a == nil || a.ID == 0 {
		return
	}
	if _, ok := r.byID[a.ID]; !ok {
		r.order = append(r.order, a)
	} else {
		for i, old := range r.order {
			if old.ID == a.ID {
				r.order[i] = a
				break
			}
		}
	}
	r.byID[a.ID] = a
}

// Get returns the agent with the given id.
func (r *Registry) Get(id AgentID) (*Agent, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// Profile resolves an id to its facts. Zero and unknown ids do not resolve.
func (r *Registry) Profile(id AgentID) (Profile, bool) {
	if id == 0 {
		return Profile{}, false
	}
	a, ok := r.byID[id]
	if !ok {
		return Profile{}, false
	}
	return a.Profile(), true
}

// All returns every registered agent in registration order.
func (r *Registry) All() []*Agent {
	return r.order
}

// Living returns the agents still alive, in registration order.
func (r *Registry) Living() []*Agent {
	alive := make([]*Agent, 0, len(r.order))
	for _, a := range r.order {
		if a.Alive {
			alive = append(alive, a)
		}
	}
	return alive
}

// CountAlive returns the number of living agents of a kind.
func (r *Registry) CountAlive(kind Kind) int {
	n := 0
	for _, a := range r.order {
		if a.Alive && a.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of registered agents, living or dead.
func (r *Registry) Len() int {
	return len(r.order)
}
