package fa

import (
	"sort"
	"strconv"
	"strings"
)

// StateSet is an order-independent set of state ids. It is comparable and
// hashable by the sorted sequence of its members (its Key), which is what
// lets it serve as a map key during subset construction: two StateSets
// built by visiting states in different orders must still collide on the
// same Dstate.
type StateSet struct {
	members map[int]struct{}
}

// NewStateSet returns an empty StateSet.
func NewStateSet(ids ...int) StateSet {
	s := StateSet{members: make(map[int]struct{}, len(ids))}
	for _, id := range ids {
		s.members[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set. No effect if already present.
func (s StateSet) Add(id int) {
	s.members[id] = struct{}{}
}

// Has reports whether id is a member of s.
func (s StateSet) Has(id int) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of members.
func (s StateSet) Len() int {
	return len(s.members)
}

// Sorted returns the members of s in ascending order.
func (s StateSet) Sorted() []int {
	out := make([]int, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Union returns a new StateSet containing every member of s and o.
func (s StateSet) Union(o StateSet) StateSet {
	out := NewStateSet(s.Sorted()...)
	for id := range o.members {
		out.Add(id)
	}
	return out
}

// Key returns a canonical string representation of s's contents, derived
// from its sorted member sequence, suitable for use as a map key (it is not
// affected by insertion order).
func (s StateSet) Key() string {
	sorted := s.Sorted()
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Equal reports whether s and o contain exactly the same members.
func (s StateSet) Equal(o StateSet) bool {
	return s.Key() == o.Key()
}

// IntersectsAny reports whether s contains any member of ids.
func (s StateSet) IntersectsAny(ids ...int) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}
