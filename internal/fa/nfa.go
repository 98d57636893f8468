package fa

// NFA is a non-deterministic finite automaton built by Thompson-style
// structural induction. Every NFA maintains the invariant that it has
// exactly one accepting state (F = {End}) and that its states form the
// contiguous range [Begin, End].
type NFA struct {
	Symbols     *SymbolTable
	Transitions *NTransitionTable
	Start       int
	End         int // the sole accepting state
	Begin       int
	Last        int // end of the contiguous state range [Begin, Last]
}

// FromSymbol builds the atomic NFA for a single symbol (spec §4.5 "Atom").
// If a is Epsilon, the result is a single state that is both start and
// accept. Otherwise it is two states joined by one edge labeled a.
func FromSymbol(a Symbol, table *SymbolTable) *NFA {
	syms := table.Clone()

	if a.IsEpsilon() {
		return &NFA{
			Symbols:     syms,
			Transitions: NewNTransitionTable(),
			Start:       0,
			End:         0,
			Begin:       0,
			Last:        0,
		}
	}

	trans := NewNTransitionTable()
	id := syms.MustID(a)
	_ = trans.AddTransition(0, id, 1)

	return &NFA{
		Symbols:     syms,
		Transitions: trans,
		Start:       0,
		End:         1,
		Begin:       0,
		Last:        1,
	}
}

// extend shifts every state of n by +k in place, including Start/End/Begin/Last.
func (n *NFA) extend(k int) {
	n.Transitions.Extend(k)
	n.Start += k
	n.End += k
	n.Begin += k
	n.Last += k
}

func epsID(table *SymbolTable) int {
	return table.MustID(Epsilon)
}

// Union builds the NFA recognizing L(n) ∪ L(other) (spec §4.5 "Union").
// Panics if the two symbol tables differ, per spec's fatal-precondition
// convention for programmer-bug-indicating mismatches.
func (n *NFA) Union(other *NFA) *NFA {
	if !n.Symbols.Equal(other.Symbols) {
		panic("fa: NFA.Union: symbol tables differ")
	}

	a := n.clone()
	b := other.clone()

	x := a.Last - a.Begin + 1 // |A|
	y := b.Last - b.Begin + 1 // |B|

	a.extend(1)
	b.extend(x + 1)

	trans := a.Transitions.Combine(b.Transitions)
	eps := epsID(a.Symbols)

	newStart := 0
	newEnd := x + y + 1

	_ = trans.AddTransition(newStart, eps, 1)
	_ = trans.AddTransition(newStart, eps, x+1)
	_ = trans.AddTransition(x, eps, newEnd)
	_ = trans.AddTransition(x+y, eps, newEnd)

	return &NFA{
		Symbols:     a.Symbols,
		Transitions: trans,
		Start:       newStart,
		End:         newEnd,
		Begin:       0,
		Last:        newEnd,
	}
}

// Concat builds the NFA recognizing L(n) · L(other) (spec §4.5 "Concat").
func (n *NFA) Concat(other *NFA) *NFA {
	if !n.Symbols.Equal(other.Symbols) {
		panic("fa: NFA.Concat: symbol tables differ")
	}

	a := n.clone()
	b := other.clone()

	x := a.Last - a.Begin + 1

	a.extend(1)
	b.extend(x + 1)

	trans := a.Transitions.Combine(b.Transitions)
	eps := epsID(a.Symbols)

	newStart := 0
	_ = trans.AddTransition(newStart, eps, a.Start)
	_ = trans.AddTransition(a.End, eps, b.Start)

	return &NFA{
		Symbols:     a.Symbols,
		Transitions: trans,
		Start:       newStart,
		End:         b.End,
		Begin:       0,
		Last:        b.End,
	}
}

// Star builds the NFA recognizing L(n)* (spec §4.5 "Kleene star").
func (n *NFA) Star() *NFA {
	a := n.clone()
	x := a.Last - a.Begin + 1

	a.extend(1)

	newStart := 0
	newEnd := x + 1

	trans := a.Transitions
	eps := epsID(a.Symbols)

	_ = trans.AddTransition(newStart, eps, a.Start)
	_ = trans.AddTransition(a.End, eps, newEnd)
	_ = trans.AddTransition(newEnd, eps, newStart)
	_ = trans.AddTransition(newStart, eps, newEnd)

	return &NFA{
		Symbols:     a.Symbols,
		Transitions: trans,
		Start:       newStart,
		End:         newEnd,
		Begin:       0,
		Last:        newEnd,
	}
}

// clone returns a deep, independent copy of n (states renumbered identically,
// not shifted) so that combinators never mutate their inputs.
func (n *NFA) clone() *NFA {
	return &NFA{
		Symbols:     n.Symbols.Clone(),
		Transitions: n.Transitions.Clone(),
		Start:       n.Start,
		End:         n.End,
		Begin:       n.Begin,
		Last:        n.Last,
	}
}

// EpsilonClosure returns every state reachable from s by following zero or
// more ε-transitions, including s itself.
func (n *NFA) EpsilonClosure(s int) StateSet {
	eps := epsID(n.Symbols)
	visited := NewStateSet(s)
	queue := []int{s}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for target := range n.Transitions.GetTransition(cur, eps).members {
			if !visited.Has(target) {
				visited.Add(target)
				queue = append(queue, target)
			}
		}
	}
	return visited
}

// EpsilonClosureOfSet iterates EpsilonClosure over every state in set until
// the accumulated set is stable. This fixed-point is needed because a
// closure may chain through states that were not originally in set.
func (n *NFA) EpsilonClosureOfSet(set StateSet) StateSet {
	result := NewStateSet(set.Sorted()...)

	for {
		before := result.Len()
		for _, s := range result.Sorted() {
			result = result.Union(n.EpsilonClosure(s))
		}
		if result.Len() == before {
			return result
		}
	}
}

// LiftDFA adds one fresh accepting state to a copy of d's transition
// structure and returns the resulting NFA, whose language equals L(d). Every
// DFA transition is copied verbatim, and every DFA final state gains an
// ε-edge to the new accepting state (spec §4.5 "DFA → NFA lift").
func LiftDFA(d *DFA) *NFA {
	trans := NewNTransitionTable()
	for _, e := range d.Transitions.Entries() {
		_ = trans.AddTransition(e[0], e[1], e[2])
	}

	newAccept := d.Last + 1
	eps := epsID(d.Symbols)
	for f := range d.Final.members {
		_ = trans.AddTransition(f, eps, newAccept)
	}

	return &NFA{
		Symbols:     d.Symbols.Clone(),
		Transitions: trans,
		Start:       d.Start,
		End:         newAccept,
		Begin:       d.Begin,
		Last:        newAccept,
	}
}
