package ranges

import (
	"cmp"
	"sort"
)

// This file supports querying a set through its endpoint array, the form
// returned by Endpoints: for the ranges
//   [5, 17)
//   [20, 25)
// the endpoints are {5, 17, 20, 25}.  A position is covered iff the number of
// endpoints <= it is odd, which turns point queries into a binary search over
// a flat slice.
//
// UnionScanner walks the covered stretches in order:
//   us := NewUnionScanner(endpoints)
//   var start, end T
//   for us.Scan(&start, &end, 22) {
//     // [start, end) is covered, and end <= 22.
//   }
// yields [5, 17) and [20, 22).  A later Scan(&start, &end, 30) resumes with
// [22, 25).

// EndpointIndex is the result of SearchEndpoints(endpoints, pos): the number
// of endpoints <= pos.
type EndpointIndex uint32

// SearchEndpoints returns the index of the first endpoint greater than x.
func SearchEndpoints[T cmp.Ordered](endpoints []T, x T) EndpointIndex {
	return EndpointIndex(sort.Search(len(endpoints), func(i int) bool { return endpoints[i] > x }))
}

// ExpSearchEndpoints is SearchEndpoints for an x that is known to be at or
// after endpoint idx.  It probes idx, idx+1, idx+3, idx+7, ... and finishes
// with a binary search, so it is cheap when x advances slowly.
func ExpSearchEndpoints[T cmp.Ordered](endpoints []T, x T, idx EndpointIndex) EndpointIndex {
	incr := EndpointIndex(1)
	lo := idx
	hi := EndpointIndex(len(endpoints))
	for idx < hi {
		if endpoints[idx] > x {
			hi = idx
			break
		}
		lo = idx + 1
		idx += incr
		incr *= 2
	}
	for lo < hi {
		mid := EndpointIndex((uint(lo) + uint(hi)) >> 1)
		if endpoints[mid] > x {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Contained returns whether the position lies inside a range.
func (ei EndpointIndex) Contained() bool {
	return ei&1 != 0
}

// Finished returns whether the position is past every range.
func (ei EndpointIndex) Finished(n int) bool {
	return ei >= EndpointIndex(n)
}

// Begin returns the index of the start of the current range if the position
// is inside one, and of the next range otherwise.
func (ei EndpointIndex) Begin() EndpointIndex {
	return ei &^ 1
}

// Update moves ei to newPos, which must not be smaller than the position ei
// was computed for.
func Update[T cmp.Ordered](ei *EndpointIndex, endpoints []T, newPos T) {
	*ei = ExpSearchEndpoints(endpoints, newPos, *ei)
}

// UnionScanner iterates over the covered stretches of an endpoint array.
type UnionScanner[T cmp.Ordered] struct {
	endpoints []T
	// pos is the next position to report.  It is covered unless done is set.
	pos  T
	idx  EndpointIndex
	done bool
}

// NewUnionScanner returns a scanner positioned at the first range.
func NewUnionScanner[T cmp.Ordered](endpoints []T) *UnionScanner[T] {
	us := &UnionScanner[T]{endpoints: endpoints, done: len(endpoints) == 0}
	if !us.done {
		us.pos = endpoints[0]
		us.idx = 1
	}
	return us
}

// Pos returns the next position to be reported.  ok is false once the scanner
// is exhausted.
func (us *UnionScanner[T]) Pos() (pos T, ok bool) {
	return us.pos, !us.done
}

// Scan stores the next covered stretch below limit in [*start, *end) and
// returns true, or returns false if there is none.  A stretch that crosses
// limit is split there; the remainder is reported by a later call with a
// larger limit.
func (us *UnionScanner[T]) Scan(start, end *T, limit T) bool {
	if us.done || us.pos >= limit {
		return false
	}
	*start = us.pos
	rangeEnd := us.endpoints[us.idx]
	if rangeEnd > limit {
		us.pos = limit
		*end = limit
		return true
	}
	*end = rangeEnd
	us.idx++
	if us.idx.Finished(len(us.endpoints)) {
		us.done = true
	} else {
		us.pos = us.endpoints[us.idx]
		us.idx++
	}
	return true
}
