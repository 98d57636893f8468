package fa

// DisjointSetUnion is a union-find structure over the integers [0, n). Union
// always attaches the numerically larger root beneath the smaller one, so
// the smallest index in any class is always its canonical representative —
// this is load-bearing for minimization, which relies on it to produce a
// deterministic, low-numbered state ordering in the quotient DFA.
type DisjointSetUnion struct {
	parent []int
}

// NewDisjointSetUnion returns a DSU over n elements, each its own root.
func NewDisjointSetUnion(n int) *DisjointSetUnion {
	d := &DisjointSetUnion{parent: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

// Find returns the root of x's class, compressing the path traversed.
func (d *DisjointSetUnion) Find(x int) int {
	root := x
	for d.parent[root] != root {
		root = d.parent[root]
	}
	for d.parent[x] != root {
		d.parent[x], x = root, d.parent[x]
	}
	return root
}

// Union joins the classes containing u and v. The smaller of the two roots
// becomes the parent of the larger; this is the canonical-representative
// rule described above.
func (d *DisjointSetUnion) Union(u, v int) {
	ru, rv := d.Find(u), d.Find(v)
	if ru == rv {
		return
	}
	if ru < rv {
		d.parent[rv] = ru
	} else {
		d.parent[ru] = rv
	}
}

// Len returns the number of distinct classes (roots) currently present.
func (d *DisjointSetUnion) Len() int {
	roots := make(map[int]struct{})
	for i := range d.parent {
		roots[d.Find(i)] = struct{}{}
	}
	return len(roots)
}

// StateRepresentativeMap returns, for every element i in [0, n), the pair
// (i+offset) -> (Find(i)+offset). It is used to translate a DSU partition
// over a cleaned-up DFA's state ids into a renumbering map for the quotient
// construction.
func (d *DisjointSetUnion) StateRepresentativeMap(offset int) map[int]int {
	m := make(map[int]int, len(d.parent))
	for i := range d.parent {
		m[i+offset] = d.Find(i) + offset
	}
	return m
}
