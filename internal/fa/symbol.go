package fa

import (
	"sort"

	"golang.org/x/text/width"
)

// Symbol is a tagged variant over the ε marker and a single code unit. The
// zero value is Epsilon.
type Symbol struct {
	epsilon bool
	r       rune
}

// Epsilon is the distinguished empty-string symbol. It is forbidden on DFA
// transitions.
var Epsilon = Symbol{epsilon: true}

// Char builds the Symbol for a single code unit.
func Char(c rune) Symbol {
	return Symbol{r: c}
}

// IsEpsilon reports whether s is the Epsilon symbol.
func (s Symbol) IsEpsilon() bool {
	return s.epsilon
}

// Rune returns the code unit carried by s. Calling this on Epsilon returns
// the zero rune; callers should check IsEpsilon first.
func (s Symbol) Rune() rune {
	return s.r
}

func (s Symbol) String() string {
	if s.epsilon {
		return "ε"
	}
	return string(s.r)
}

// SymbolTable is a bijection between Symbol and a dense id space, with
// Epsilon always bound to id 0. New characters are assigned successive ids
// as they are first seen; re-adding a known symbol is a no-op.
type SymbolTable struct {
	// Wide selects whether the table folds Unicode width variants
	// (halfwidth/fullwidth forms) to a single canonical rune before
	// assigning or looking up an id. When false (the default), every
	// distinct rune value gets its own id, matching the original
	// byte-per-character semantics exactly.
	Wide bool

	toID  map[Symbol]int
	toSym map[int]Symbol
	next  int
}

// NewSymbolTable returns a table seeded with ε ↔ 0.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{
		toID:  make(map[Symbol]int),
		toSym: make(map[int]Symbol),
	}
	t.toID[Epsilon] = 0
	t.toSym[0] = Epsilon
	t.next = 1
	return t
}

// fold applies the table's width-normalization policy, used only when Wide
// is enabled, so that the same canonicalization is applied to every symbol
// added to the table and (by the caller) to every rune read from the input
// stream.
func (t *SymbolTable) fold(c rune) rune {
	if !t.Wide {
		return c
	}
	return width.Fold.Rune(c)
}

// AddCharacter assigns c a fresh id if it is not already known; re-adding a
// known character has no effect.
func (t *SymbolTable) AddCharacter(c rune) {
	sym := Char(t.fold(c))
	if _, ok := t.toID[sym]; ok {
		return
	}
	id := t.next
	t.next++
	t.toID[sym] = id
	t.toSym[id] = sym
}

// Len returns the number of distinct symbols registered, including ε.
func (t *SymbolTable) Len() int {
	return len(t.toID)
}

// ID returns the id bound to sym. The zero value, false is returned if sym
// is unknown to the table (after width folding, if Wide is set).
func (t *SymbolTable) ID(sym Symbol) (int, bool) {
	if !sym.epsilon {
		sym = Char(t.fold(sym.r))
	}
	id, ok := t.toID[sym]
	return id, ok
}

// MustID is like ID but panics if sym is unknown; used internally by
// constructors that have already validated their alphabet.
func (t *SymbolTable) MustID(sym Symbol) int {
	id, ok := t.ID(sym)
	if !ok {
		panic("fa: symbol not present in table: " + sym.String())
	}
	return id
}

// Symbol returns the symbol bound to id, and whether it was found.
func (t *SymbolTable) Symbol(id int) (Symbol, bool) {
	sym, ok := t.toSym[id]
	return sym, ok
}

// Symbols returns every Symbol registered in the table, in id order.
func (t *SymbolTable) Symbols() []Symbol {
	ids := make([]int, 0, len(t.toSym))
	for id := range t.toSym {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	syms := make([]Symbol, len(ids))
	for i, id := range ids {
		syms[i] = t.toSym[id]
	}
	return syms
}

// Clone returns a deep copy of t, suitable for being copied by value into a
// constructed automaton.
func (t *SymbolTable) Clone() *SymbolTable {
	c := &SymbolTable{
		Wide:  t.Wide,
		toID:  make(map[Symbol]int, len(t.toID)),
		toSym: make(map[int]Symbol, len(t.toSym)),
		next:  t.next,
	}
	for k, v := range t.toID {
		c.toID[k] = v
	}
	for k, v := range t.toSym {
		c.toSym[k] = v
	}
	return c
}

// Equal reports whether t and o hold exactly the same symbol set (ids are
// not compared, only membership, matching spec §4.1's "equality is set
// equality of symbol membership").
func (t *SymbolTable) Equal(o *SymbolTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	for sym := range t.toID {
		if _, ok := o.toID[sym]; !ok {
			return false
		}
	}
	return true
}
