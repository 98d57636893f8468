package fa

import "sort"

// NTransitionTable is the relation Δ : State × Symbol → 𝒫(State) used by an
// NFA. Unlike DTransitionTable it admits ε and multiple targets per
// (state, symbol) pair.
type NTransitionTable struct {
	edges map[int]map[int]map[int]struct{} // state -> symbol id -> target set
}

// NewNTransitionTable returns an empty relation.
func NewNTransitionTable() *NTransitionTable {
	return &NTransitionTable{edges: make(map[int]map[int]map[int]struct{})}
}

// AddTransition adds (s, a, target) to the relation. Re-adding an exact
// duplicate edge returns KindExistingTransition; per spec §4.4 this is
// non-fatal and the combinators in this package ignore it.
func (n *NTransitionTable) AddTransition(s int, a int, target int) error {
	bySym, ok := n.edges[s]
	if !ok {
		bySym = make(map[int]map[int]struct{})
		n.edges[s] = bySym
	}
	targets, ok := bySym[a]
	if !ok {
		targets = make(map[int]struct{})
		bySym[a] = targets
	}
	if _, exists := targets[target]; exists {
		return newError(KindExistingTransition, "transition (%d, %d, %d) already present", s, a, target)
	}
	targets[target] = struct{}{}
	return nil
}

// IsValidTransition reports whether any edge exists from s on symbol a.
func (n *NTransitionTable) IsValidTransition(s int, a int) bool {
	bySym, ok := n.edges[s]
	if !ok {
		return false
	}
	targets, ok := bySym[a]
	return ok && len(targets) > 0
}

// ContainsTransition reports whether the exact edge (s, a, target) is
// present.
func (n *NTransitionTable) ContainsTransition(s int, a int, target int) bool {
	bySym, ok := n.edges[s]
	if !ok {
		return false
	}
	targets, ok := bySym[a]
	if !ok {
		return false
	}
	_, ok = targets[target]
	return ok
}

// GetTransition returns the set of target states reachable from s on symbol
// a.
func (n *NTransitionTable) GetTransition(s int, a int) StateSet {
	out := NewStateSet()
	bySym, ok := n.edges[s]
	if !ok {
		return out
	}
	for target := range bySym[a] {
		out.Add(target)
	}
	return out
}

// SymbolsFrom returns every symbol id (including ε, represented as id 0)
// that has at least one outgoing edge from s.
func (n *NTransitionTable) SymbolsFrom(s int) []int {
	bySym, ok := n.edges[s]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(bySym))
	for sym := range bySym {
		out = append(out, sym)
	}
	sort.Ints(out)
	return out
}

// Combine returns a new table holding the union of n and other: per key, per
// symbol, the union of destination sets.
func (n *NTransitionTable) Combine(other *NTransitionTable) *NTransitionTable {
	out := n.Clone()
	for s, bySym := range other.edges {
		for a, targets := range bySym {
			for target := range targets {
				// ignore ExistingTransition: combine is a set union, not an
				// audited add.
				_ = out.AddTransition(s, a, target)
			}
		}
	}
	return out
}

// Extend renumbers every source and every destination by +k, processing
// sources in descending order (see DTransitionTable.Extend for why this
// ordering matters).
func (n *NTransitionTable) Extend(k int) {
	if k == 0 {
		return
	}

	sources := make([]int, 0, len(n.edges))
	for s := range n.edges {
		sources = append(sources, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sources)))

	renumbered := make(map[int]map[int]map[int]struct{}, len(n.edges))
	for _, s := range sources {
		bySym := n.edges[s]
		newBySym := make(map[int]map[int]struct{}, len(bySym))
		for a, targets := range bySym {
			newTargets := make(map[int]struct{}, len(targets))
			for target := range targets {
				newTargets[target+k] = struct{}{}
			}
			newBySym[a] = newTargets
		}
		renumbered[s+k] = newBySym
	}
	n.edges = renumbered
}

// Clone returns a deep copy of n.
func (n *NTransitionTable) Clone() *NTransitionTable {
	out := NewNTransitionTable()
	for s, bySym := range n.edges {
		newBySym := make(map[int]map[int]struct{}, len(bySym))
		for a, targets := range bySym {
			newTargets := make(map[int]struct{}, len(targets))
			for target := range targets {
				newTargets[target] = struct{}{}
			}
			newBySym[a] = newTargets
		}
		out.edges[s] = newBySym
	}
	return out
}

// States returns every state that appears as a source of at least one edge.
func (n *NTransitionTable) States() []int {
	out := make([]int, 0, len(n.edges))
	for s := range n.edges {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}
