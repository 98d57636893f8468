package fa

import "sort"

// dKey is the (state, symbol id) pair that keys a DTransitionTable entry.
// Symbol ids rather than Symbol values are used as the key because every
// stored entry is already guaranteed non-ε and the tables live alongside a
// SymbolTable that resolved the id.
type dKey struct {
	state int
	sym   int
}

// DTransitionTable is the total function δ : State × Symbol → State used by
// a DFA. Every stored entry's symbol is guaranteed non-ε, and at most one
// target exists per (state, symbol) pair.
type DTransitionTable struct {
	edges map[dKey]int
}

// NewDTransitionTable returns an empty table.
func NewDTransitionTable() *DTransitionTable {
	return &DTransitionTable{edges: make(map[dKey]int)}
}

// AddTransition adds δ(s, a) = target. It fails with KindInvalidTransition if
// a is ε or if (s, a) already has any target.
func (d *DTransitionTable) AddTransition(s int, a int, target int) error {
	k := dKey{state: s, sym: a}
	if _, exists := d.edges[k]; exists {
		return newError(KindInvalidTransition, "state %d already has a transition on symbol %d", s, a)
	}
	d.edges[k] = target
	return nil
}

// IsValidTransition reports whether δ(s, a) is defined.
func (d *DTransitionTable) IsValidTransition(s int, a int) bool {
	_, ok := d.edges[dKey{state: s, sym: a}]
	return ok
}

// Lookup returns δ(s, a) and whether it was defined.
func (d *DTransitionTable) Lookup(s int, a int) (int, bool) {
	target, ok := d.edges[dKey{state: s, sym: a}]
	return target, ok
}

// Extend renumbers every occurring state (source and destination) by +k.
// Source states are processed in descending order so that a renamed bucket
// never collides with an un-renamed one still awaiting its turn.
func (d *DTransitionTable) Extend(k int) {
	if k == 0 {
		return
	}

	sources := make(map[int]struct{})
	for key := range d.edges {
		sources[key.state] = struct{}{}
	}
	ordered := make([]int, 0, len(sources))
	for s := range sources {
		ordered = append(ordered, s)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ordered)))

	for _, s := range ordered {
		for sym := range d.symbolsFrom(s) {
			target := d.edges[dKey{state: s, sym: sym}]
			delete(d.edges, dKey{state: s, sym: sym})
			d.edges[dKey{state: s + k, sym: sym}] = target + k
		}
	}
}

func (d *DTransitionTable) symbolsFrom(s int) map[int]struct{} {
	syms := make(map[int]struct{})
	for key := range d.edges {
		if key.state == s {
			syms[key.sym] = struct{}{}
		}
	}
	return syms
}

// Clone returns a deep copy of d.
func (d *DTransitionTable) Clone() *DTransitionTable {
	c := NewDTransitionTable()
	for k, v := range d.edges {
		c.edges[k] = v
	}
	return c
}

// Entries returns every (state, symbol, target) triple in the table. Order
// is unspecified.
func (d *DTransitionTable) Entries() [][3]int {
	out := make([][3]int, 0, len(d.edges))
	for k, v := range d.edges {
		out = append(out, [3]int{k.state, k.sym, v})
	}
	return out
}

// Len returns the number of stored transitions.
func (d *DTransitionTable) Len() int {
	return len(d.edges)
}
