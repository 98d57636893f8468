// Package cache stores compiled DFAs keyed by their source pattern text, so
// that repeated compilation of the same regex is avoided. It is grounded on
// the teacher's server/dao persistence layer: a Store interface with an
// in-memory and a SQLite-backed implementation.
package cache

import (
	"github.com/dekarrin/rezi"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dekarrin/refa/internal/fa"
)

// Entry is one cached compiled pattern.
type Entry struct {
	ID      uuid.UUID
	Pattern string
	DFA     *fa.DFA
}

// Stats summarizes the contents of a Store, for display in the CLI and REPL.
type Stats struct {
	Patterns    int
	BytesStored int64
}

// String renders Stats using humanize for a byte count an operator can read
// at a glance.
func (s Stats) String() string {
	return humanize.Comma(int64(s.Patterns)) + " pattern(s), " + humanize.Bytes(uint64(s.BytesStored)) + " stored"
}

// Store caches compiled patterns. Compile is idempotent: recompiling an
// already-cached pattern string returns the existing Entry without invoking
// the regex compiler again.
type Store interface {
	// Compile returns the cached Entry for pattern, compiling and storing it
	// via compileFn first if it is not already present.
	Compile(pattern string, compileFn func(string) (*fa.DFA, error)) (Entry, error)

	// Get looks up an entry by its assigned ID.
	Get(id uuid.UUID) (Entry, bool, error)

	// GetByPattern looks up an entry by its exact source pattern text.
	GetByPattern(pattern string) (Entry, bool, error)

	// Stats reports the current size of the store.
	Stats() (Stats, error)

	// Close releases any resources held by the store.
	Close() error
}

// dfaBlob is the rezi-serializable shadow of a DFA: scalar fields plus the
// transition table flattened to triples and the symbol table flattened to
// its non-ε runes in id order. Re-adding runes to a fresh SymbolTable in
// that same order reproduces the original id assignment exactly.
type dfaBlob struct {
	Start    int
	Begin    int
	Last     int
	Wide     bool
	Final    []int
	Runes    []int32
	EdgeFrom []int
	EdgeSym  []int
	EdgeTo   []int
}

func encodeDFA(d *fa.DFA) []byte {
	b := dfaBlob{
		Start: d.Start,
		Begin: d.Begin,
		Last:  d.Last,
		Wide:  d.Symbols.Wide,
		Final: d.Final.Sorted(),
	}

	for _, sym := range d.Symbols.Symbols() {
		if sym.IsEpsilon() {
			continue
		}
		b.Runes = append(b.Runes, sym.Rune())
	}

	for _, e := range d.Transitions.Entries() {
		b.EdgeFrom = append(b.EdgeFrom, e[0])
		b.EdgeSym = append(b.EdgeSym, e[1])
		b.EdgeTo = append(b.EdgeTo, e[2])
	}

	return rezi.EncBinary(b)
}

func decodeDFA(data []byte) (*fa.DFA, error) {
	var b dfaBlob
	if _, err := rezi.DecBinary(data, &b); err != nil {
		return nil, err
	}

	table := fa.NewSymbolTable()
	table.Wide = b.Wide
	for _, r := range b.Runes {
		table.AddCharacter(rune(r))
	}

	trans := fa.NewDTransitionTable()
	for i := range b.EdgeFrom {
		if err := trans.AddTransition(b.EdgeFrom[i], b.EdgeSym[i], b.EdgeTo[i]); err != nil {
			return nil, err
		}
	}

	return &fa.DFA{
		Symbols:     table,
		Transitions: trans,
		Start:       b.Start,
		Final:       fa.NewStateSet(b.Final...),
		Begin:       b.Begin,
		Last:        b.Last,
	}, nil
}
