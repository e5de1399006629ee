package ranges

import (
	"cmp"
	"fmt"
	"sort"
)

// Range is the half-open interval [Start, End).  Nothing requires Start <
// End; empty and inverted ranges are accepted everywhere, with whatever
// result the containment rules below produce.
type Range[T cmp.Ordered] struct {
	Start T
	End   T
}

// Contains returns whether Start <= x < End.
func (r Range[T]) Contains(x T) bool {
	return r.Start <= x && x < r.End
}

// Overlaps returns whether either range contains one of the other's
// endpoints.  Since End is compared with Contains as well, ranges which only
// touch, such as [0, 5) and [5, 10), overlap.
func (r Range[T]) Overlaps(o Range[T]) bool {
	return r.Contains(o.Start) || r.Contains(o.End) || o.Contains(r.Start) || o.Contains(r.End)
}

func (r Range[T]) String() string {
	return fmt.Sprintf("[%v, %v)", r.Start, r.End)
}

// flatten widens l so that it also covers r, and returns whether l changed.
// l and r are expected to overlap.
func flatten[T cmp.Ordered](l *Range[T], r Range[T]) bool {
	hasStart, hasEnd := l.Contains(r.Start), l.Contains(r.End)
	switch {
	case hasStart && hasEnd:
		// r is already inside l.
		return false
	case hasStart:
		l.End = r.End
		return true
	case hasEnd:
		l.Start = r.Start
		return true
	}
	switch inStart, inEnd := r.Contains(l.Start), r.Contains(l.End); {
	case inStart && inEnd:
		*l = r
	case inStart:
		l.Start = r.Start
	case inEnd:
		// r begins exactly at l.End.
		l.End = r.End
	default:
		return false
	}
	return true
}

// Set is the interface shared by Ranges and Tree.
type Set[T cmp.Ordered] interface {
	// Add merges r into the set.
	Add(r Range[T])
	// Sorted returns a copy of the ranges in the set, ordered by Start.
	Sorted() []Range[T]
	// Len returns the number of disjoint ranges in the set.
	Len() int
	// Contains returns whether x is covered by some range in the set.
	Contains(x T) bool
	// Endpoints returns the sorted ranges flattened as
	// {start0, end0, start1, end1, ...}.
	Endpoints() []T
}

// Ranges is a set of disjoint ranges kept in insertion order.  The zero value
// is an empty set.
type Ranges[T cmp.Ordered] struct {
	ranges []Range[T]
}

// Add merges r into the set.  If r overlaps nothing it is appended.
// Otherwise every stored range that r overlaps is widened to cover r, and each
// one that actually grew is removed and added again, since it may now reach
// ranges that r alone did not.  r itself is not stored in that case.
//
// Re-adding is done depth first from an explicit stack rather than by
// recursion, so the order of merges, and hence the result for inverted or
// empty ranges, is the same as adding each widened range with a nested call.
func (s *Ranges[T]) Add(r Range[T]) {
	stack := [][]Range[T]{s.merge(r)}
	for len(stack) > 0 {
		top := len(stack) - 1
		if len(stack[top]) == 0 {
			stack = stack[:top]
			continue
		}
		e := stack[top][0]
		stack[top] = stack[top][1:]
		s.remove(e)
		if widened := s.merge(e); len(widened) > 0 {
			stack = append(stack, widened)
		}
	}
}

// merge appends r if it overlaps no stored range.  Otherwise it widens the
// overlapping ranges in place and returns the new values of those that grew.
func (s *Ranges[T]) merge(r Range[T]) []Range[T] {
	var widened []Range[T]
	found := false
	for i := range s.ranges {
		if !s.ranges[i].Overlaps(r) {
			continue
		}
		found = true
		if flatten(&s.ranges[i], r) {
			widened = append(widened, s.ranges[i])
		}
	}
	if !found {
		s.ranges = append(s.ranges, r)
	}
	return widened
}

// remove deletes every stored range equal to e, keeping the others in order.
func (s *Ranges[T]) remove(e Range[T]) {
	kept := s.ranges[:0]
	for _, x := range s.ranges {
		if x != e {
			kept = append(kept, x)
		}
	}
	s.ranges = kept
}

// Sorted returns a copy of the ranges in s ordered by Start.  The caller owns
// the result.
func (s *Ranges[T]) Sorted() []Range[T] {
	out := make([]Range[T], len(s.ranges))
	copy(out, s.ranges)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Len returns the number of disjoint ranges in s.
func (s *Ranges[T]) Len() int {
	return len(s.ranges)
}

// Contains returns whether x lies in one of the ranges in s.
func (s *Ranges[T]) Contains(x T) bool {
	for _, e := range s.ranges {
		if e.Contains(x) {
			return true
		}
	}
	return false
}

// Endpoints returns the sorted ranges of s as {start0, end0, start1, end1,
// ...}.
func (s *Ranges[T]) Endpoints() []T {
	return endpoints(s.Sorted())
}

func endpoints[T cmp.Ordered](sorted []Range[T]) []T {
	out := make([]T, 0, 2*len(sorted))
	for _, r := range sorted {
		out = append(out, r.Start, r.End)
	}
	return out
}
