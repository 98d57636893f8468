package regex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/refa/internal/fa"
)

func Test_Compile_scenarios(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		accept  []string
		reject  []string
	}{
		{
			name:    "star of a single symbol",
			pattern: "star(symbol(a))",
			accept:  []string{"", "a", "aaaaa"},
		},
		{
			name:    "binary strings starting with 01",
			pattern: "concat(concat(symbol(0),symbol(1)),star(union(symbol(0),symbol(1))))",
			accept:  []string{"01", "010011"},
			reject:  []string{"1011"},
		},
		{
			name:    "union of two symbols",
			pattern: "union(symbol(a),symbol(b))",
			accept:  []string{"a", "b"},
			reject:  []string{"", "ab"},
		},
		{
			name:    "concat of three symbols",
			pattern: "concat(symbol(a),concat(symbol(b),symbol(c)))",
			accept:  []string{"abc"},
			reject:  []string{"ab", "abcd"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			d, err := Compile(tc.pattern)
			if !assert.NoError(err) {
				return
			}

			for _, w := range tc.accept {
				got, err := d.Run(w)
				assert.NoError(err)
				assert.True(got, "expected %q accepted", w)
			}
			for _, w := range tc.reject {
				got, err := d.Run(w)
				assert.NoError(err)
				assert.False(got, "expected %q rejected", w)
			}
		})
	}
}

func Test_Compile_parseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
	}{
		{name: "unbalanced parens", pattern: "concat(symbol(a),symbol(b)"},
		{name: "unmatched close paren", pattern: "symbol(a))"},
		{name: "star with two operands", pattern: "star(symbol(a),symbol(b))"},
		{name: "union with one operand", pattern: "union(symbol(a))"},
		{name: "two top-level expressions", pattern: "symbol(a)symbol(b)"},
		{name: "unknown token", pattern: "frobnicate(symbol(a))"},
		{name: "unterminated symbol", pattern: "symbol(a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			_, err := Compile(tc.pattern)
			if !assert.Error(err) {
				return
			}

			var faErr *fa.Error
			if assert.True(errors.As(err, &faErr)) {
				assert.Equal(fa.KindParse, faErr.Kind)
			}
		})
	}
}

func Test_Compile_emptyInputIsAccepted(t *testing.T) {
	assert := assert.New(t)

	d, err := Compile("star(symbol(a))")
	if !assert.NoError(err) {
		return
	}

	accept, err := d.Run("")
	assert.NoError(err)
	assert.True(accept)
}

func Test_Compile_sameSourceTwiceProducesEquivalentLanguages(t *testing.T) {
	assert := assert.New(t)

	d1, err := Compile("union(symbol(a),symbol(b))")
	assert.NoError(err)
	d2, err := Compile("union(symbol(a),symbol(b))")
	assert.NoError(err)

	for _, w := range []string{"a", "b", "ab", ""} {
		got1, err := d1.Run(w)
		assert.NoError(err)
		got2, err := d2.Run(w)
		assert.NoError(err)
		assert.Equal(got1, got2, "input %q", w)
	}
}
