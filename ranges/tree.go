package ranges

import (
	"cmp"

	"github.com/biogo/store/llrb"
)

// node is the llrb key for a range.  Ranges in a Tree are disjoint, so
// ordering by Start alone is total.
type node[T cmp.Ordered] Range[T]

// Compare implements llrb.Comparable.
func (n node[T]) Compare(c llrb.Comparable) int {
	return cmp.Compare(n.Start, c.(node[T]).Start)
}

// Tree is a set of disjoint ranges ordered by Start.  It merges exactly like
// Ranges, but finds the ranges overlapping a new one with Floor and Ceil
// lookups instead of a scan.  The zero value is an empty set.
//
// The lookups rely on the stored ranges being well formed (Start < End).
// Empty and inverted ranges are accepted, but results involving them may
// differ from what Ranges would produce.  In particular ranges are keyed by
// Start alone, so adding an empty range such as [30, 30) several times stores
// it once, where Ranges keeps every copy.
type Tree[T cmp.Ordered] struct {
	tree llrb.Tree
}

// Add merges r into the set; see Ranges.Add.
func (t *Tree[T]) Add(r Range[T]) {
	for {
		hit, ok := t.firstOverlap(r)
		if !ok {
			t.tree.Insert(node[T](r))
			return
		}
		widened := hit
		if !flatten(&widened, r) {
			return
		}
		t.tree.Delete(node[T](hit))
		r = widened
	}
}

// firstOverlap returns a stored range overlapping r, if any.  Among disjoint
// ranges the only candidates are the last one starting at or before r.Start
// and the first one starting after it.
func (t *Tree[T]) firstOverlap(r Range[T]) (Range[T], bool) {
	key := node[T]{Start: r.Start}
	if c := t.tree.Floor(key); c != nil {
		if e := Range[T](c.(node[T])); e.Overlaps(r) {
			return e, true
		}
	}
	if c := t.tree.Ceil(key); c != nil {
		if e := Range[T](c.(node[T])); e.Overlaps(r) {
			return e, true
		}
	}
	return Range[T]{}, false
}

// Covering returns the range containing x.
func (t *Tree[T]) Covering(x T) (Range[T], bool) {
	c := t.tree.Floor(node[T]{Start: x})
	if c == nil {
		return Range[T]{}, false
	}
	e := Range[T](c.(node[T]))
	return e, e.Contains(x)
}

// Contains returns whether x lies in one of the ranges in t.
func (t *Tree[T]) Contains(x T) bool {
	_, ok := t.Covering(x)
	return ok
}

// Sorted returns a copy of the ranges in t ordered by Start.
func (t *Tree[T]) Sorted() []Range[T] {
	out := make([]Range[T], 0, t.tree.Len())
	t.tree.Do(func(c llrb.Comparable) bool {
		out = append(out, Range[T](c.(node[T])))
		return false
	})
	return out
}

// Len returns the number of disjoint ranges in t.
func (t *Tree[T]) Len() int {
	return t.tree.Len()
}

// Endpoints returns the ranges of t as {start0, end0, start1, end1, ...}.
func (t *Tree[T]) Endpoints() []T {
	return endpoints(t.Sorted())
}
