// Package mesh merges independently numbered triangular zones into one
// topologically consistent mesh graph.
//
// # Overview
//
// A zone is a list of points and a list of triangles, each triangle given as
// three 1-based indices into the zone's own points. Zones are produced
// separately (for example by a discretization tool per subdomain), so the
// same physical point usually appears once in every zone that touches it.
//
// [Grid.AddZone] resolves every zone point against the canonical nodes
// already in the grid, using the node matcher from the [match] package, and
// then builds the zone's faces and edges against the shared canonical nodes.
// Points with exactly equal coordinates become one node; each distinct
// undirected node pair becomes exactly one [Edge], shared by every face that
// uses it regardless of the zone it came from.
//
// # Basic Usage
//
//	g, err := mesh.New(match.SortedTwoSided)
//	if err != nil {
//	    return err
//	}
//	_, err = g.AddZone(mesh.ZoneInput{
//	    Name:   "ZONE 1",
//	    Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}},
//	    Faces:  [][]int{{1, 2, 3}},
//	})
//
// [Merge] builds a grid from several zones in one call.
//
// # Handles
//
// The grid owns all node, edge and face storage. Nodes, edges, faces and
// zones refer to each other through integer handles ([NodeID], [EdgeID],
// [FaceID], [ZoneID]) that index the grid's global sequences. A handle is
// stable for the lifetime of the grid; nothing is ever removed.
//
// Zones hold handles, not copies. A zone's node list is positional: if two
// local points of the same zone are equal, both positions refer to the same
// canonical node and the list keeps its original length.
//
// # Identifiers
//
// The ID fields of nodes, edges and faces are zero while zones are being
// merged. [Grid.AssignIDs] numbers them 1..N in global sequence order. It is
// a separate pass because the canonical node order only settles once every
// zone has been merged, and it can be repeated with the same result.
//
// # Errors
//
// A face that does not have exactly three indices, or that references an
// index outside [1, number of zone points], fails with an
// INVALID_CONNECTIVITY error. The zone is validated before any node is
// resolved, so a failed [Grid.AddZone] leaves the grid unchanged.
//
// # Concurrency
//
// Grid instances are not safe for concurrent use. Zones of one grid must be
// merged sequentially.
//
// [match]: github.com/matzehuels/gridmerge/pkg/mesh/match
package mesh
