package relations

import "github.com/talgya/cozy-town/internal/agents"

// Store owns every relationship state, keyed by canonical pair. Entries are
// held by pointer so a fetched state is the live record; there is no
// copy to write back.
type Store struct {
	rels map[Pair]*State
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{rels: make(map[Pair]*State, 8192)}
}

// GetOrCreate returns the live state for a and b, creating a zeroed one on
// first access. (a, b) and (b, a) return the same record.
// Precondition: a != b. Self pairs are filtered by callers, not here.
func (s *Store) GetOrCreate(a, b agents.AgentID) *State {
	k := PairOf(a, b)
	if st, ok := s.rels[k]; ok {
		return st
	}
	st := &State{IDLow: k.Low, IDHigh: k.High}
	s.rels[k] = st
	return st
}

// Get returns the live state for a and b if the pair has any history.
func (s *Store) Get(a, b agents.AgentID) (*State, bool) {
	st, ok := s.rels[PairOf(a, b)]
	return st, ok
}

// Set writes a full record, canonicalizing its ids. An existing record is
// overwritten in place so outstanding pointers observe the new values.
func (s *Store) Set(st State) {
	k := PairOf(st.IDLow, st.IDHigh)
	st.IDLow, st.IDHigh = k.Low, k.High
	if cur, ok := s.rels[k]; ok {
		*cur = st
		return
	}
	s.rels[k] = &st
}

// Len returns the number of known pairs.
func (s *Store) Len() int {
	return len(s.rels)
}

// Each calls fn for every state in unspecified order.
func (s *Store) Each(fn func(*State)) {
	for _, st := range s.rels {
		fn(st)
	}
}
