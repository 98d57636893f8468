package fa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTableFor(chars string) *SymbolTable {
	table := NewSymbolTable()
	for _, c := range chars {
		table.AddCharacter(c)
	}
	return table
}

func Test_FromLiteral_emptyString(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("ab")
	d := FromLiteral("", table)

	accept, err := d.Run("")
	assert.NoError(err)
	assert.True(accept)

	for _, w := range []string{"a", "b", "aa"} {
		accept, err := d.Run(w)
		assert.NoError(err)
		assert.False(accept, "expected %q to be rejected", w)
	}
}

func Test_FromLiteral_nonEmptyString(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("abcd")
	d := FromLiteral("abc", table)

	testCases := []struct {
		input  string
		expect bool
	}{
		{"abc", true},
		{"abd", false},
		{"ab", false},
		{"abcd", false},
	}

	for _, tc := range testCases {
		accept, err := d.Run(tc.input)
		assert.NoError(err)
		assert.Equal(tc.expect, accept, "input %q", tc.input)
	}
}

func Test_DFA_Run_invalidSymbol(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("a")
	d := FromLiteral("a", table)

	_, err := d.Run("z")
	assert.Error(err)

	var faErr *Error
	if assert.True(errors.As(err, &faErr)) {
		assert.Equal(KindInvalidTransition, faErr.Kind)
	}
}

func Test_DFA_Run_invalidState(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("a")
	d := FromLiteral("a", table)
	d.Start = 999 // out of [Begin,Last] range

	_, err := d.Run("a")
	assert.Error(err)

	var faErr *Error
	if assert.True(errors.As(err, &faErr)) {
		assert.Equal(KindInvalidState, faErr.Kind)
	}
}

// Scenario 1 (spec.md §8): star(symbol(a))
func Test_Scenario_StarOfSymbol(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("a")
	n := FromSymbol(Char('a'), table).Star()
	d := SubsetConstruct(n).Minimize()

	for _, w := range []string{"", "a", "aaaaa"} {
		accept, err := d.Run(w)
		assert.NoError(err)
		assert.True(accept, "expected %q accepted", w)
	}
	_, err := d.Run("ab")
	assert.Error(err) // 'b' is not in the alphabet at all
}

// Scenario 2 (spec.md §8): concat(concat(symbol(0),symbol(1)),star(union(symbol(0),symbol(1))))
func Test_Scenario_BinaryStringsStartingWith01(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("01")
	zero := FromSymbol(Char('0'), table)
	one := FromSymbol(Char('1'), table)
	tail := zero.Union(one).Star()
	n := zero.Concat(one).Concat(tail)
	d := SubsetConstruct(n).Minimize()

	for _, w := range []string{"01", "010011"} {
		accept, err := d.Run(w)
		assert.NoError(err)
		assert.True(accept, "expected %q accepted", w)
	}
	accept, err := d.Run("1011")
	assert.NoError(err)
	assert.False(accept)
}

// Scenario 3 (spec.md §8): concat(star(union(symbol(a),symbol(b))),symbol(c)) ∩ literal("abc")
func Test_Scenario_IntersectWithLiteral(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("abc")
	a := FromSymbol(Char('a'), table)
	b := FromSymbol(Char('b'), table)
	c := FromSymbol(Char('c'), table)
	body := a.Union(b).Star().Concat(c)
	left := SubsetConstruct(body).Minimize()

	right := FromLiteral("abc", table)

	result := left.Intersect(right)

	accept, err := result.Run("abc")
	assert.NoError(err)
	assert.True(accept)

	for _, w := range []string{"abbaabc", "abcabc"} {
		accept, err := result.Run(w)
		assert.NoError(err)
		assert.False(accept, "expected %q rejected", w)
	}
}

// Scenario 4 (spec.md §8): complement(union(symbol(a),symbol(b)))
func Test_Scenario_Complement(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("ab")
	a := FromSymbol(Char('a'), table)
	b := FromSymbol(Char('b'), table)
	n := a.Union(b)
	d := SubsetConstruct(n).Minimize()

	comp := d.Complement()

	for _, w := range []string{"", "aa", "ab"} {
		accept, err := comp.Run(w)
		assert.NoError(err)
		assert.True(accept, "expected %q accepted by complement", w)
	}
	for _, w := range []string{"a", "b"} {
		accept, err := comp.Run(w)
		assert.NoError(err)
		assert.False(accept, "expected %q rejected by complement", w)
	}
}

// Scenario 5 (spec.md §8): literal DFA for "abc" over {a,b,c,d}
func Test_Scenario_LiteralOverWiderAlphabet(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("abcd")
	d := FromLiteral("abc", table)

	accept, err := d.Run("abc")
	assert.NoError(err)
	assert.True(accept)

	for _, w := range []string{"abd", "ab", "abcd"} {
		accept, err := d.Run(w)
		assert.NoError(err)
		assert.False(accept, "expected %q rejected", w)
	}
}

// Scenario 6 (spec.md §8): literal DFA for ""
func Test_Scenario_LiteralEmptyString(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("xyz")
	d := FromLiteral("", table)

	accept, err := d.Run("")
	assert.NoError(err)
	assert.True(accept)

	for _, w := range []string{"x", "xy", "xyz"} {
		accept, err := d.Run(w)
		assert.NoError(err)
		assert.False(accept, "expected %q rejected", w)
	}
}

func Test_DFA_Cleanup_removesUnreachableStates(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("a")
	trans := NewDTransitionTable()
	aID := table.MustID(Char('a'))
	_ = trans.AddTransition(0, aID, 1)
	// state 2 is unreachable from start
	_ = trans.AddTransition(2, aID, 2)

	d := &DFA{
		Symbols:     table,
		Transitions: trans,
		Start:       0,
		Final:       NewStateSet(1),
		Begin:       0,
		Last:        2,
	}

	c := d.Cleanup()
	assert.Equal(2, c.NumStates())
	assert.Equal(0, c.Start)
}

func Test_DFA_Minimize_collapsesEquivalentSinks(t *testing.T) {
	assert := assert.New(t)

	// two distinct, but Myhill-Nerode equivalent, dead states both reachable
	// on 'b' from states 0 and 1, which themselves are equivalent (neither
	// ever reaches an accept state).
	table := buildTableFor("ab")
	aID := table.MustID(Char('a'))
	bID := table.MustID(Char('b'))

	trans := NewDTransitionTable()
	_ = trans.AddTransition(0, aID, 0)
	_ = trans.AddTransition(0, bID, 2)
	_ = trans.AddTransition(1, aID, 1)
	_ = trans.AddTransition(1, bID, 3)
	_ = trans.AddTransition(2, aID, 2)
	_ = trans.AddTransition(2, bID, 2)
	_ = trans.AddTransition(3, aID, 3)
	_ = trans.AddTransition(3, bID, 3)

	d := &DFA{
		Symbols:     table,
		Transitions: trans,
		Start:       0,
		Final:       NewStateSet(), // no accepting states at all
		Begin:       0,
		Last:        3,
	}

	min := d.Minimize()
	assert.Equal(1, min.NumStates())
}

func Test_DFA_Minimize_isIdempotent(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("ab")
	a := FromSymbol(Char('a'), table)
	b := FromSymbol(Char('b'), table)
	n := a.Union(b).Star()
	d := SubsetConstruct(n).Minimize()

	twice := d.Minimize()
	assert.Equal(d.NumStates(), twice.NumStates())

	for _, w := range []string{"", "a", "b", "ab", "ba", "aabb"} {
		want, err := d.Run(w)
		assert.NoError(err)
		got, err := twice.Run(w)
		assert.NoError(err)
		assert.Equal(want, got, "input %q", w)
	}
}

func Test_DFA_Intersect_mismatchedAlphabetsPanics(t *testing.T) {
	assert := assert.New(t)

	a := FromLiteral("a", buildTableFor("a"))
	b := FromLiteral("b", buildTableFor("b"))

	assert.Panics(func() {
		a.Intersect(b)
	})
}

func Test_DFA_Clone_isIndependent(t *testing.T) {
	assert := assert.New(t)

	table := buildTableFor("a")
	d := FromLiteral("a", table)
	clone := d.Clone()

	clone.Final.Add(999)

	assert.False(d.Final.Has(999))
	assert.True(clone.Final.Has(999))
}
