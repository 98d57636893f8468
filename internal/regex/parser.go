// Package regex translates the prefix s-expression surface syntax of spec
// §4.7 into a minimized DFA, grounded on the teacher's tunascript parser and
// ictiobus/lex scanner shape but generalized to a two-stack evaluator over
// the four prefix functions symbol/concat/union/star.
package regex

import (
	"github.com/dekarrin/refa/internal/fa"
)

// opToken identifies an operator waiting on the operator stack for its
// matching ')'. opParen is the '(' sentinel pushed alongside each operator.
type opToken int

const (
	opConcat opToken = iota
	opUnion
	opStar
	opParen
)

func (t opToken) String() string {
	switch t {
	case opConcat:
		return "concat"
	case opUnion:
		return "union"
	case opStar:
		return "star"
	default:
		return "("
	}
}

// Compile parses src in the grammar of spec §4.7 and returns the minimized
// DFA for the language it denotes.
func Compile(src string) (*fa.DFA, error) {
	table := fa.NewSymbolTable()
	scanSymbols(src, table)

	n, err := parse(src, table)
	if err != nil {
		return nil, err
	}

	return fa.SubsetConstruct(n).Minimize(), nil
}

// scanSymbols is the pre-pass: it finds every symbol(x) occurrence in src
// and registers x in table, so that the main pass's NFA atoms all share one
// fully-populated SymbolTable (and so union/concat never panic on a symbol
// table mismatch due to one branch's atoms predating another's).
func scanSymbols(src string, table *fa.SymbolTable) {
	runes := []rune(src)
	kw := []rune("symbol(")
	for i := 0; i+len(kw) < len(runes); i++ {
		if matchAt(runes, i, kw) {
			table.AddCharacter(runes[i+len(kw)])
		}
	}
}

func matchAt(runes []rune, i int, kw []rune) bool {
	if i+len(kw) > len(runes) {
		return false
	}
	for j, r := range kw {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

var (
	kwSymbol = []rune("symbol(")
	kwConcat = []rune("concat(")
	kwUnion  = []rune("union(")
	kwStar   = []rune("star(")
)

// parse runs the two-stack evaluator described in spec §4.7: one stack holds
// operator tokens and the '(' sentinel, the other holds partially built
// NFAs. On a close paren, the NFAs are popped according to the operator
// immediately below the matching '(': star consumes one operand, union and
// concat each consume two (the first one popped is the right operand, since
// it was pushed most recently).
func parse(src string, table *fa.SymbolTable) (*fa.NFA, error) {
	runes := []rune(src)
	n := len(runes)

	var opStack []opToken
	var nfaStack []*fa.NFA

	i := 0
	for i < n {
		switch {
		case matchAt(runes, i, kwSymbol):
			i += len(kwSymbol)
			if i >= n {
				return nil, fa.NewParseError("unexpected end of input inside symbol()")
			}
			c := runes[i]
			i++
			if i >= n || runes[i] != ')' {
				return nil, fa.NewParseError("expected ')' after symbol(%c", c)
			}
			i++
			nfaStack = append(nfaStack, fa.FromSymbol(fa.Char(c), table))

		case matchAt(runes, i, kwConcat):
			i += len(kwConcat)
			opStack = append(opStack, opConcat, opParen)

		case matchAt(runes, i, kwUnion):
			i += len(kwUnion)
			opStack = append(opStack, opUnion, opParen)

		case matchAt(runes, i, kwStar):
			i += len(kwStar)
			opStack = append(opStack, opStar, opParen)

		case runes[i] == ',':
			i++

		case runes[i] == ')':
			i++
			var err error
			opStack, nfaStack, err = closeConstruct(opStack, nfaStack)
			if err != nil {
				return nil, err
			}

		default:
			return nil, fa.NewParseError("unexpected character %q at position %d", runes[i], i)
		}
	}

	if len(opStack) != 0 {
		return nil, fa.NewParseError("unbalanced input: %d unclosed construct(s)", len(opStack)/2)
	}
	if len(nfaStack) != 1 {
		return nil, fa.NewParseError("expected exactly one expression, got %d", len(nfaStack))
	}
	return nfaStack[0], nil
}

// closeConstruct handles one ')': it pops the matching '(' sentinel, then
// the operator immediately below it, and builds the corresponding NFA from
// the operand(s) on the NFA stack.
func closeConstruct(opStack []opToken, nfaStack []*fa.NFA) ([]opToken, []*fa.NFA, error) {
	if len(opStack) == 0 {
		return opStack, nfaStack, fa.NewParseError("unmatched ')'")
	}
	top := opStack[len(opStack)-1]
	if top != opParen {
		return opStack, nfaStack, fa.NewParseError("unmatched ')'")
	}
	opStack = opStack[:len(opStack)-1]

	if len(opStack) == 0 {
		return opStack, nfaStack, fa.NewParseError("malformed input: operator missing before '('")
	}
	op := opStack[len(opStack)-1]
	opStack = opStack[:len(opStack)-1]

	switch op {
	case opStar:
		if len(nfaStack) < 1 {
			return opStack, nfaStack, fa.NewParseError("star() requires one operand")
		}
		operand := nfaStack[len(nfaStack)-1]
		nfaStack = nfaStack[:len(nfaStack)-1]
		nfaStack = append(nfaStack, operand.Star())

	case opUnion, opConcat:
		if len(nfaStack) < 2 {
			return opStack, nfaStack, fa.NewParseError("%s() requires two operands", op)
		}
		right := nfaStack[len(nfaStack)-1]
		left := nfaStack[len(nfaStack)-2]
		nfaStack = nfaStack[:len(nfaStack)-2]
		if op == opUnion {
			nfaStack = append(nfaStack, left.Union(right))
		} else {
			nfaStack = append(nfaStack, left.Concat(right))
		}

	default:
		return opStack, nfaStack, fa.NewParseError("malformed input: unexpected operator on stack")
	}

	return opStack, nfaStack, nil
}
