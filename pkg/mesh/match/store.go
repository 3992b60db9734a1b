package match

import (
	"math"
	"slices"
	"sort"

	"github.com/paulmach/orb"
)

const signBit = 1 << 63

// orderKey maps v onto a uint64 whose natural order is a total order over
// float64 bit patterns. Two values have the same key exactly when their bits
// are equal.
func orderKey(v float64) uint64 {
	b := math.Float64bits(v)
	if b&signBit != 0 {
		return ^b
	}
	return b | signBit
}

// same reports whether a and b have identical bit patterns.
func same(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// Equal reports whether two points are the same canonical node.
func Equal(a, b orb.Point) bool {
	return same(a[0], b[0]) && same(a[1], b[1])
}

// Store is the append-only collection of canonical points.
//
// Points are kept in insertion order; a point's handle is its position in
// that order. When indexed, the store also keeps the handles ordered by the
// x coordinate, with equal x values contiguous and, within a run of equal x,
// in insertion order.
type Store struct {
	points  []orb.Point
	sorted  []int
	indexed bool
}

// NewStore returns an empty store. An indexed store maintains the x-sorted
// view required by the dichotomy strategies.
func NewStore(indexed bool) *Store {
	return &Store{indexed: indexed}
}

// Len returns the number of canonical points.
func (s *Store) Len() int { return len(s.points) }

// Point returns the point with handle h.
func (s *Store) Point(h int) orb.Point { return s.points[h] }

// Points returns the points in insertion order. The slice must not be
// modified.
func (s *Store) Points() []orb.Point { return s.points }

// Indexed reports whether the store maintains an x-sorted view.
func (s *Store) Indexed() bool { return s.indexed }

// Sorted returns a copy of the handles in x-sorted order, or nil for an
// unindexed store.
func (s *Store) Sorted() []int {
	if !s.indexed {
		return nil
	}
	return slices.Clone(s.sorted)
}

func (s *Store) keyAt(i int) uint64 {
	return orderKey(s.points[s.sorted[i]][0])
}

// lowerBound returns the first sorted position whose x key is >= k.
func (s *Store) lowerBound(k uint64) int {
	return sort.Search(len(s.sorted), func(i int) bool { return s.keyAt(i) >= k })
}

// upperBound returns the first sorted position whose x key is > k.
func (s *Store) upperBound(k uint64) int {
	return sort.Search(len(s.sorted), func(i int) bool { return s.keyAt(i) > k })
}

// land performs a classic dichotomy and stops on the first probe whose x key
// equals k. It reports false when no such position exists.
func (s *Store) land(k uint64) (int, bool) {
	lo, hi := 0, len(s.sorted)-1
	for lo <= hi {
		mid := int(uint(lo+hi) >> 1)
		switch mk := s.keyAt(mid); {
		case mk < k:
			lo = mid + 1
		case mk > k:
			hi = mid - 1
		default:
			return mid, true
		}
	}
	return lo, false
}

// insert appends p and, for an indexed store, places its handle after every
// handle with an x key <= p's.
func (s *Store) insert(p orb.Point) int {
	h := len(s.points)
	s.points = append(s.points, p)
	if s.indexed {
		pos := s.upperBound(orderKey(p[0]))
		s.sorted = slices.Insert(s.sorted, pos, h)
	}
	return h
}
