package mesh

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDanglingHandle is returned by [Grid.Validate] when a node, edge,
	// face or zone refers to a handle outside the grid's sequences.
	ErrDanglingHandle = errors.New("dangling handle")

	// ErrDuplicateEdge is returned by [Grid.Validate] when two edges connect
	// the same unordered node pair.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrBrokenAdjacency is returned by [Grid.Validate] when a back-reference
	// is missing: a face not listed on its node or edge, an edge not listed
	// on its node, or a face edge that does not join the expected corners.
	ErrBrokenAdjacency = errors.New("broken adjacency")
)

// Validate checks the structural invariants of the grid and returns nil if
// they hold:
//
//  1. Every handle stored anywhere points into the grid
//  2. At most one edge exists per unordered node pair
//  3. Node, edge and face back-references agree with each other
//
// A grid built only through AddZone always validates; the check exists for
// tests and for inspecting grids after manual changes.
func (g *Grid) Validate() error {
	if err := g.validateEdges(); err != nil {
		return err
	}
	if err := g.validateFaces(); err != nil {
		return err
	}
	return g.validateZones()
}

func (g *Grid) validNode(n NodeID) bool { return n >= 0 && int(n) < len(g.nodes) }
func (g *Grid) validEdge(e EdgeID) bool { return e >= 0 && int(e) < len(g.edges) }
func (g *Grid) validFace(f FaceID) bool { return f >= 0 && int(f) < len(g.faces) }

func (g *Grid) validateEdges() error {
	seen := make(map[pairKey]EdgeID, len(g.edges))
	for i, e := range g.edges {
		id := EdgeID(i)
		for _, n := range e.Nodes {
			if !g.validNode(n) {
				return fmt.Errorf("%w: edge %d references node %d", ErrDanglingHandle, i, n)
			}
			if !slices.Contains(g.nodes[n].Edges, id) {
				return fmt.Errorf("%w: edge %d missing from node %d", ErrBrokenAdjacency, i, n)
			}
		}
		key := keyOf(e.Nodes[0], e.Nodes[1])
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%w: edges %d and %d join nodes %d and %d", ErrDuplicateEdge, prev, i, key.lo, key.hi)
		}
		seen[key] = id
		for _, f := range e.Faces {
			if !g.validFace(f) {
				return fmt.Errorf("%w: edge %d references face %d", ErrDanglingHandle, i, f)
			}
			if !slices.Contains(g.faces[f].Edges[:], id) {
				return fmt.Errorf("%w: edge %d lists face %d which does not use it", ErrBrokenAdjacency, i, f)
			}
		}
	}
	return nil
}

func (g *Grid) validateFaces() error {
	for i, f := range g.faces {
		id := FaceID(i)
		for _, n := range f.Nodes {
			if !g.validNode(n) {
				return fmt.Errorf("%w: face %d references node %d", ErrDanglingHandle, i, n)
			}
			if !slices.Contains(g.nodes[n].Faces, id) {
				return fmt.Errorf("%w: face %d missing from node %d", ErrBrokenAdjacency, i, n)
			}
		}
		for k, e := range f.Edges {
			if !g.validEdge(e) {
				return fmt.Errorf("%w: face %d references edge %d", ErrDanglingHandle, i, e)
			}
			edge := g.edges[e]
			a, b := f.Nodes[k], f.Nodes[(k+1)%3]
			if keyOf(edge.Nodes[0], edge.Nodes[1]) != keyOf(a, b) {
				return fmt.Errorf("%w: face %d edge %d does not join nodes %d and %d", ErrBrokenAdjacency, i, e, a, b)
			}
			if !slices.Contains(edge.Faces, id) {
				return fmt.Errorf("%w: face %d missing from edge %d", ErrBrokenAdjacency, i, e)
			}
		}
	}
	return nil
}

func (g *Grid) validateZones() error {
	for i, z := range g.zones {
		for _, n := range z.Nodes {
			if !g.validNode(n) {
				return fmt.Errorf("%w: zone %d references node %d", ErrDanglingHandle, i, n)
			}
		}
		for _, f := range z.Faces {
			if !g.validFace(f) {
				return fmt.Errorf("%w: zone %d references face %d", ErrDanglingHandle, i, f)
			}
			if g.faces[f].Zone != ZoneID(i) {
				return fmt.Errorf("%w: zone %d lists face %d of zone %d", ErrBrokenAdjacency, i, f, g.faces[f].Zone)
			}
		}
	}
	return nil
}
