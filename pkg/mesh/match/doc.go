// Package match decides whether a candidate point already exists among the
// canonical nodes of a mesh.
//
// # Overview
//
// When zones of a triangular mesh are merged, every zone-local node is looked
// up against the nodes already accepted into the merged mesh. A node whose
// coordinates compare exactly equal to an existing one is unified with it;
// otherwise it becomes a new canonical node. This package owns both the
// canonical point store and the search that answers "does this point exist".
//
// # Strategies
//
// Three interchangeable strategies are available, selected once per merge:
//
//   - [Linear]: scans every stored point in insertion order. O(n) per lookup.
//   - [SortedOneSided]: binary-searches an x-sorted index for the first point
//     with an equal x, then scans rightward through the x-equal run.
//   - [SortedTwoSided]: binary-searches the x-sorted index until it lands on
//     any point with an equal x, then scans outward in both directions.
//
// All strategies produce the same canonical point set. They differ in cost
// and, when the store holds several equal points, in which handle is
// returned: [Linear] and [SortedOneSided] return the earliest inserted one,
// [SortedTwoSided] returns the one closest to its landing position in the
// sorted index, preferring the lower index on ties.
//
// # Equality
//
// Coordinates are compared by their IEEE-754 bit pattern. There is no
// tolerance: 0.1+0.2 and 0.3 are different nodes. NaN matches a NaN with the
// same payload, and -0 and +0 are distinct. The sorted index orders x values
// by a total order over bit patterns so that every value, including NaN, has
// a well-defined position.
//
// # Usage
//
//	m, err := match.New(match.SortedTwoSided)
//	if err != nil {
//	    return err
//	}
//	h, inserted := m.FindOrInsert(orb.Point{1, 0})
//
// Handles are dense: the n-th inserted point has handle n-1. Callers that
// keep a parallel slice of node records can use the handle as an index.
//
// # Concurrency
//
// A [Matcher] is not safe for concurrent use. Interleaved inserts would
// break the sortedness of the index.
package match
