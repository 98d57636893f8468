package fa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_SymbolTable_bijection(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	table.AddCharacter('a')
	table.AddCharacter('b')
	table.AddCharacter('c')

	for _, sym := range table.Symbols() {
		id, ok := table.ID(sym)
		if !assert.True(ok) {
			continue
		}
		got, ok := table.Symbol(id)
		if !assert.True(ok) {
			continue
		}
		assert.Equal(sym, got)
	}

	epsID, ok := table.ID(Epsilon)
	assert.True(ok)
	assert.Equal(0, epsID)
}

func Test_SymbolTable_AddCharacter_isIdempotent(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	table.AddCharacter('x')
	first, _ := table.ID(Char('x'))

	table.AddCharacter('x')
	second, ok := table.ID(Char('x'))

	assert.True(ok)
	assert.Equal(first, second)
	assert.Equal(2, table.Len()) // epsilon + 'x'
}

func Test_SymbolTable_ID_unknownSymbol(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	table.AddCharacter('a')

	_, ok := table.ID(Char('z'))
	assert.False(ok)
}

func Test_SymbolTable_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		a      []rune
		b      []rune
		expect bool
	}{
		{name: "identical sets", a: []rune{'a', 'b'}, b: []rune{'b', 'a'}, expect: true},
		{name: "different sizes", a: []rune{'a', 'b'}, b: []rune{'a'}, expect: false},
		{name: "same size different members", a: []rune{'a', 'b'}, b: []rune{'a', 'c'}, expect: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			a := NewSymbolTable()
			for _, c := range tc.a {
				a.AddCharacter(c)
			}
			b := NewSymbolTable()
			for _, c := range tc.b {
				b.AddCharacter(c)
			}

			assert.Equal(tc.expect, a.Equal(b))
		})
	}
}

func Test_SymbolTable_Clone_isIndependent(t *testing.T) {
	assert := assert.New(t)

	orig := NewSymbolTable()
	orig.AddCharacter('a')

	clone := orig.Clone()
	clone.AddCharacter('b')

	_, origHasB := orig.ID(Char('b'))
	_, cloneHasB := clone.ID(Char('b'))

	assert.False(origHasB)
	assert.True(cloneHasB)
}

func Test_SymbolTable_Wide_foldsHalfwidthAndFullwidth(t *testing.T) {
	assert := assert.New(t)

	table := NewSymbolTable()
	table.Wide = true
	table.AddCharacter('a')

	fullWidthA := rune(0xFF41) // fullwidth 'ａ'
	id, ok := table.ID(Char(fullWidthA))

	assert.True(ok)
	narrowID, _ := table.ID(Char('a'))
	assert.Equal(narrowID, id)
}
