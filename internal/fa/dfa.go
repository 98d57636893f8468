package fa

import "sort"

// DFA is a deterministic finite automaton. Its transition function δ is
// guaranteed total over Σ\{ε} only on the reachable sub-machine after
// Cleanup has been applied; states form the contiguous range [Begin, Last].
type DFA struct {
	Symbols     *SymbolTable
	Transitions *DTransitionTable
	Start       int
	Final       StateSet
	Begin       int
	Last        int
}

func nonEpsilonIDs(t *SymbolTable) []int {
	ids := make([]int, 0, t.Len())
	for _, sym := range t.Symbols() {
		if sym.IsEpsilon() {
			continue
		}
		ids = append(ids, t.MustID(sym))
	}
	sort.Ints(ids)
	return ids
}

func (d *DFA) allSymbolIDs() []int {
	return nonEpsilonIDs(d.Symbols)
}

// FromLiteral builds the DFA recognizing exactly the single string w (spec
// §4.6). The empty string is a special case: state 0 is accepting and state
// 1 is a non-accepting sink that every symbol, from either state, loops back
// to. For non-empty w, state i<len(w) advances to i+1 on w[i] and to a
// reject sink on every other symbol; the accepting state and the sink both
// self-loop on every symbol, making δ explicitly total (this is required for
// Complement to be correct without a separate totality pass, per spec §9).
func FromLiteral(w string, table *SymbolTable) *DFA {
	syms := table.Clone()
	runes := []rune(w)
	n := len(runes)
	alphabet := nonEpsilonIDs(syms)
	trans := NewDTransitionTable()

	if n == 0 {
		for _, a := range alphabet {
			_ = trans.AddTransition(0, a, 1)
			_ = trans.AddTransition(1, a, 1)
		}
		return &DFA{Symbols: syms, Transitions: trans, Start: 0, Final: NewStateSet(0), Begin: 0, Last: 1}
	}

	sink := n + 1
	for i := 0; i < n; i++ {
		matchID := syms.MustID(Char(runes[i]))
		for _, a := range alphabet {
			if a == matchID {
				_ = trans.AddTransition(i, a, i+1)
			} else {
				_ = trans.AddTransition(i, a, sink)
			}
		}
	}
	for _, a := range alphabet {
		_ = trans.AddTransition(n, a, sink)
		_ = trans.AddTransition(sink, a, sink)
	}

	return &DFA{Symbols: syms, Transitions: trans, Start: 0, Final: NewStateSet(n), Begin: 0, Last: sink}
}

// SubsetConstruct converts an NFA into an equivalent DFA (spec §4.6). The
// initial DFA state is ε-closure({NFA.Start}); thereafter a BFS over
// not-yet-processed subsets assigns each newly discovered ε-closed subset a
// fresh, monotonically increasing id in the order it is first reached, so
// the final state count equals the number of distinct subsets visited. When
// the union of an input subset's moves on a symbol is empty, that symbol's
// destination is the empty subset itself, which collapses via StateSet.Key
// into a single shared dead state that every other dead transition also
// lands on and that self-loops on every symbol, so the resulting δ stays
// total over Σ\{ε} instead of going partial.
func SubsetConstruct(n *NFA) *DFA {
	start := n.EpsilonClosureOfSet(NewStateSet(n.Start))

	type subset struct {
		id  int
		set StateSet
	}
	idOf := map[string]int{start.Key(): 0}
	order := []subset{{id: 0, set: start}}
	trans := NewDTransitionTable()
	final := NewStateSet()
	if start.Has(n.End) {
		final.Add(0)
	}

	symbols := nonEpsilonIDs(n.Symbols)

	for i := 0; i < len(order); i++ {
		cur := order[i]
		for _, a := range symbols {
			dest := NewStateSet()
			for _, s := range cur.set.Sorted() {
				dest = dest.Union(n.Transitions.GetTransition(s, a))
			}
			closed := n.EpsilonClosureOfSet(dest)
			key := closed.Key()
			id, ok := idOf[key]
			if !ok {
				id = len(order)
				idOf[key] = id
				order = append(order, subset{id: id, set: closed})
				if closed.Has(n.End) {
					final.Add(id)
				}
			}
			_ = trans.AddTransition(cur.id, a, id)
		}
	}

	return &DFA{
		Symbols:     n.Symbols.Clone(),
		Transitions: trans,
		Start:       0,
		Final:       final,
		Begin:       0,
		Last:        len(order) - 1,
	}
}

// Cleanup performs a BFS from Start over d's transitions, remaps visited
// states to a dense range starting at 0 (Start becomes 0, the rest in BFS
// visitation order), drops unreachable states and their transitions, and
// filters Final to the surviving states.
func (d *DFA) Cleanup() *DFA {
	order := []int{d.Start}
	seen := map[int]bool{d.Start: true}
	symbols := d.allSymbolIDs()

	for i := 0; i < len(order); i++ {
		s := order[i]
		for _, a := range symbols {
			if t, ok := d.Transitions.Lookup(s, a); ok {
				if !seen[t] {
					seen[t] = true
					order = append(order, t)
				}
			}
		}
	}

	remap := make(map[int]int, len(order))
	for i, s := range order {
		remap[s] = i
	}

	newTrans := NewDTransitionTable()
	for _, e := range d.Transitions.Entries() {
		src, sym, tgt := e[0], e[1], e[2]
		newSrc, ok := remap[src]
		if !ok {
			continue
		}
		newTgt, ok := remap[tgt]
		if !ok {
			continue
		}
		_ = newTrans.AddTransition(newSrc, sym, newTgt)
	}

	newFinal := NewStateSet()
	for _, f := range d.Final.Sorted() {
		if nf, ok := remap[f]; ok {
			newFinal.Add(nf)
		}
	}

	return &DFA{
		Symbols:     d.Symbols.Clone(),
		Transitions: newTrans,
		Start:       0,
		Final:       newFinal,
		Begin:       0,
		Last:        len(order) - 1,
	}
}

// Minimize implements pair-marking (table-filling) minimization over a
// cleaned-up copy of d (spec §4.6). Two distinguishable states get their
// (i,j) pair (i<j) marked; the fixed point is reached when a full sweep
// marks nothing new. Unmarked pairs are merged via DisjointSetUnion, whose
// smaller-root-wins rule keeps the quotient's numbering deterministic and
// leaves Start at 0.
func (d *DFA) Minimize() *DFA {
	c := d.Cleanup()
	n := c.Last - c.Begin + 1
	if n == 0 {
		return c
	}

	marked := make([][]bool, n)
	for i := range marked {
		marked[i] = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if c.Final.Has(i) != c.Final.Has(j) {
				marked[i][j] = true
			}
		}
	}

	symbols := c.allSymbolIDs()

	for {
		changed := false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if marked[i][j] {
					continue
				}
				for _, a := range symbols {
					ti, oki := c.Transitions.Lookup(i, a)
					tj, okj := c.Transitions.Lookup(j, a)
					if oki != okj {
						marked[i][j] = true
						changed = true
						break
					}
					if !oki {
						continue
					}
					lo, hi := ti, tj
					if lo > hi {
						lo, hi = hi, lo
					}
					if lo != hi && marked[lo][hi] {
						marked[i][j] = true
						changed = true
						break
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	dsu := NewDisjointSetUnion(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !marked[i][j] {
				dsu.Union(i, j)
			}
		}
	}

	rootSet := make(map[int]bool)
	for i := 0; i < n; i++ {
		rootSet[dsu.Find(i)] = true
	}
	roots := make([]int, 0, len(rootSet))
	for r := range rootSet {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	newID := make(map[int]int, len(roots))
	for idx, r := range roots {
		newID[r] = idx
	}

	newTrans := NewDTransitionTable()
	newFinal := NewStateSet()
	for _, r := range roots {
		for _, a := range symbols {
			if t, ok := c.Transitions.Lookup(r, a); ok {
				targetRoot := dsu.Find(t)
				_ = newTrans.AddTransition(newID[r], a, newID[targetRoot])
			}
		}
		if c.Final.Has(r) {
			newFinal.Add(newID[r])
		}
	}

	return &DFA{
		Symbols:     c.Symbols.Clone(),
		Transitions: newTrans,
		Start:       newID[dsu.Find(c.Start)],
		Final:       newFinal,
		Begin:       0,
		Last:        len(roots) - 1,
	}
}

// completeTotal returns a cleaned-up copy of d in which δ is total over
// every reachable state and every non-ε symbol, adding a single fresh
// non-accepting dead-sink state (which self-loops on every symbol) if
// needed. This is the totality precondition Complement requires.
func (d *DFA) completeTotal() *DFA {
	c := d.Cleanup()
	symbols := c.allSymbolIDs()
	n := c.Last - c.Begin + 1

	missing := false
	for s := 0; s < n && !missing; s++ {
		for _, a := range symbols {
			if !c.Transitions.IsValidTransition(s, a) {
				missing = true
				break
			}
		}
	}
	if !missing {
		return c
	}

	sink := n
	trans := c.Transitions.Clone()
	for s := 0; s < n; s++ {
		for _, a := range symbols {
			if !trans.IsValidTransition(s, a) {
				_ = trans.AddTransition(s, a, sink)
			}
		}
	}
	for _, a := range symbols {
		_ = trans.AddTransition(sink, a, sink)
	}

	return &DFA{
		Symbols:     c.Symbols.Clone(),
		Transitions: trans,
		Start:       c.Start,
		Final:       c.Final,
		Begin:       0,
		Last:        sink,
	}
}

// Complement returns the DFA accepting the complement language: it accepts w
// iff d rejects w. d is first completed with an explicit dead sink so that
// flipping Final is sound even when d's δ was partial (spec §4.6/§9).
func (d *DFA) Complement() *DFA {
	c := d.completeTotal()
	n := c.Last - c.Begin + 1

	newFinal := NewStateSet()
	for i := 0; i < n; i++ {
		if !c.Final.Has(i) {
			newFinal.Add(i)
		}
	}
	c.Final = newFinal

	return c.Minimize()
}

// deadPairState marks the dead side of a product-automaton pair state in
// Intersect: whichever component lacks a transition on a symbol, the whole
// pair collapses to deadPairState on both sides, so every such pair hashes
// to the same dead product state instead of spawning one per distinct live
// remainder.
const deadPairState = -1

// Intersect builds the product automaton recognizing L(d) ∩ L(other) (spec
// §4.6). Requires equal symbol tables; a mismatch is a fatal precondition
// failure (programmer bug), matching Union/Concat's panic convention.
// Whenever either side lacks a transition on a symbol, the product moves to
// a single shared dead state (deadPairState, deadPairState) that self-loops
// on every symbol, rather than omitting the edge, so δ stays total; Minimize
// afterward collapses it with any other non-accepting dead states.
func (d *DFA) Intersect(other *DFA) *DFA {
	if !d.Symbols.Equal(other.Symbols) {
		panic("fa: DFA.Intersect: symbol tables differ")
	}

	a := d.Cleanup()
	b := other.Cleanup()

	type pair struct{ p, q int }
	start := pair{a.Start, b.Start}
	idOf := map[pair]int{start: 0}
	order := []pair{start}
	trans := NewDTransitionTable()
	final := NewStateSet()
	if a.Final.Has(start.p) && b.Final.Has(start.q) {
		final.Add(0)
	}

	symbols := a.allSymbolIDs()

	for i := 0; i < len(order); i++ {
		cur := order[i]
		curID := idOf[cur]
		for _, sym := range symbols {
			tp, okp := a.Transitions.Lookup(cur.p, sym)
			tq, okq := b.Transitions.Lookup(cur.q, sym)

			var np pair
			accepting := false
			if !okp || !okq {
				np = pair{deadPairState, deadPairState}
			} else {
				np = pair{tp, tq}
				accepting = a.Final.Has(tp) && b.Final.Has(tq)
			}

			id, ok := idOf[np]
			if !ok {
				id = len(order)
				idOf[np] = id
				order = append(order, np)
				if accepting {
					final.Add(id)
				}
			}
			_ = trans.AddTransition(curID, sym, id)
		}
	}

	out := &DFA{
		Symbols:     a.Symbols.Clone(),
		Transitions: trans,
		Start:       0,
		Final:       final,
		Begin:       0,
		Last:        len(order) - 1,
	}
	return out.Minimize()
}

// stateInDomain reports whether s is within the automaton's declared state
// range. A state outside this range indicates a malformed automaton (a bug
// in construction, not an ordinary rejecting path).
func (d *DFA) stateInDomain(s int) bool {
	return s >= d.Begin && s <= d.Last
}

// Run walks d from Start, consuming one symbol per rune of input. It fails
// with InvalidState if the current state falls outside d's declared range,
// or InvalidTransition if δ has no entry for (current, symbol), including
// when the rune itself isn't in d's alphabet: that is just the (current,
// symbol) pair having no entry since the symbol doesn't exist to look up.
// KindInvalidSymbol is reserved for a future extended compiler and is never
// returned here. Otherwise Run accepts iff the state reached after the whole
// input lies in Final.
func (d *DFA) Run(input string) (bool, error) {
	cur := d.Start
	if !d.stateInDomain(cur) {
		return false, newError(KindInvalidState, "start state %d is not in range [%d,%d]", cur, d.Begin, d.Last)
	}

	for _, c := range input {
		id, ok := d.Symbols.ID(Char(c))
		if !ok {
			return false, newError(KindInvalidTransition, "character %q is not in the automaton's alphabet", c)
		}

		if !d.stateInDomain(cur) {
			return false, newError(KindInvalidState, "state %d is not in range [%d,%d]", cur, d.Begin, d.Last)
		}

		target, ok := d.Transitions.Lookup(cur, id)
		if !ok {
			return false, newError(KindInvalidTransition, "no transition defined for (state %d, symbol %q)", cur, c)
		}
		cur = target
	}

	return d.Final.Has(cur), nil
}

// Clone returns a deep copy of d.
func (d *DFA) Clone() *DFA {
	return &DFA{
		Symbols:     d.Symbols.Clone(),
		Transitions: d.Transitions.Clone(),
		Start:       d.Start,
		Final:       NewStateSet(d.Final.Sorted()...),
		Begin:       d.Begin,
		Last:        d.Last,
	}
}

// NumStates returns the number of states in d's declared range.
func (d *DFA) NumStates() int {
	return d.Last - d.Begin + 1
}
