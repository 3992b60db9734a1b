package mesh

import (
	"fmt"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
)

// NodeID is a handle to a canonical node in a [Grid].
type NodeID int

// EdgeID is a handle to an edge in a [Grid].
type EdgeID int

// FaceID is a handle to a triangular face in a [Grid].
type FaceID int

// ZoneID is a handle to a zone in a [Grid].
type ZoneID int

// Node is a canonical mesh point together with the edges and faces
// incident to it.
type Node struct {
	Point orb.Point
	Edges []EdgeID // incident edges, in creation order
	Faces []FaceID // incident faces, in creation order
	ID    int      // 1-based position, set by AssignIDs
}

// X returns the node's first coordinate.
func (n Node) X() float64 { return n.Point[0] }

// Y returns the node's second coordinate.
func (n Node) Y() float64 { return n.Point[1] }

// Edge is an undirected connection between two canonical nodes.
// Nodes holds the pair in the order of the face that created the edge.
type Edge struct {
	Nodes [2]NodeID
	Faces []FaceID // incident faces; one for a boundary edge, two for an interior one
	ID    int
}

// Has reports whether n is one of the edge's endpoints.
func (e Edge) Has(n NodeID) bool { return e.Nodes[0] == n || e.Nodes[1] == n }

// Face is a triangle over three canonical nodes.
// Edges[k] connects Nodes[k] and Nodes[(k+1)%3].
type Face struct {
	Nodes [3]NodeID
	Edges [3]EdgeID
	Local [3]int // 1-based zone-local indices the face was built from
	Zone  ZoneID
	ID    int
}

// Zone is a named sub-view of the grid: the canonical nodes of the zone's
// points in local order, and the faces built from the zone's triangles.
type Zone struct {
	Name  string
	Nodes []NodeID
	Faces []FaceID
}

// Positions maps each node of the zone to its 1-based position in the
// zone's node list. When a node occurs more than once, the first position
// is used.
func (z Zone) Positions() map[NodeID]int {
	pos := make(map[NodeID]int, len(z.Nodes))
	for i, n := range z.Nodes {
		if _, ok := pos[n]; !ok {
			pos[n] = i + 1
		}
	}
	return pos
}

// ZoneInput is one zone as delivered by an input adapter.
type ZoneInput struct {
	Name   string
	Points []orb.Point
	Faces  [][]int // 1-based indices into Points, three per face
}

// Validate checks the zone's connectivity: every face has exactly three
// indices, each within [1, len(Points)].
func (in ZoneInput) Validate() error {
	n := len(in.Points)
	for i, f := range in.Faces {
		if len(f) != 3 {
			return errs.New(errs.ErrCodeInvalidConnectivity,
				"zone %q face %d: has %d node indices, want 3", in.Name, i+1, len(f))
		}
		for _, idx := range f {
			if idx < 1 || idx > n {
				return errs.New(errs.ErrCodeInvalidConnectivity,
					"zone %q face %d: node index %d out of range [1, %d]", in.Name, i+1, idx, n)
			}
		}
	}
	return nil
}

type pairKey struct{ lo, hi NodeID }

func keyOf(a, b NodeID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Grid is the merged mesh: the global sequences of canonical nodes, edges
// and faces plus the zones that reference them.
//
// The zero value is not usable - use New to create a Grid.
// Grid is not safe for concurrent use.
type Grid struct {
	matcher *match.Matcher
	nodes   []Node
	edges   []Edge
	faces   []Face
	zones   []Zone
	pairs   map[pairKey]EdgeID
}

// New creates an empty grid whose zones will be merged with strategy s.
// It returns an UNKNOWN_MERGE_STRATEGY error if s is not defined.
func New(s match.Strategy) (*Grid, error) {
	m, err := match.New(s)
	if err != nil {
		return nil, err
	}
	return &Grid{matcher: m, pairs: make(map[pairKey]EdgeID)}, nil
}

// Merge creates a grid with strategy s and adds every zone in order.
// The first failing zone aborts the merge.
func Merge(s match.Strategy, zones ...ZoneInput) (*Grid, error) {
	g, err := New(s)
	if err != nil {
		return nil, err
	}
	for i, z := range zones {
		if _, err := g.AddZone(z); err != nil {
			return nil, fmt.Errorf("zone %d: %w", i+1, err)
		}
	}
	return g, nil
}

// Strategy returns the node matching strategy of the grid.
func (g *Grid) Strategy() match.Strategy { return g.matcher.Strategy() }

// Comparisons returns the number of node comparisons performed by the
// matcher so far.
func (g *Grid) Comparisons() int { return g.matcher.Comparisons() }

// Nodes returns the canonical nodes in global order. The slice is a view;
// it must not be modified and is invalidated by AddZone.
func (g *Grid) Nodes() []Node { return g.nodes }

// Edges returns the edges in creation order. The slice is a view.
func (g *Grid) Edges() []Edge { return g.edges }

// Faces returns the faces in zone order. The slice is a view.
func (g *Grid) Faces() []Face { return g.faces }

// Zones returns the zones in merge order. The slice is a view.
func (g *Grid) Zones() []Zone { return g.zones }

// Node returns the node with handle id.
func (g *Grid) Node(id NodeID) Node { return g.nodes[id] }

// Edge returns the edge with handle id.
func (g *Grid) Edge(id EdgeID) Edge { return g.edges[id] }

// Face returns the face with handle id.
func (g *Grid) Face(id FaceID) Face { return g.faces[id] }

// Zone returns the zone with handle id.
func (g *Grid) Zone(id ZoneID) Zone { return g.zones[id] }

// NodeCount returns the number of canonical nodes.
func (g *Grid) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Grid) EdgeCount() int { return len(g.edges) }

// FaceCount returns the number of faces.
func (g *Grid) FaceCount() int { return len(g.faces) }

// ZoneCount returns the number of merged zones.
func (g *Grid) ZoneCount() int { return len(g.zones) }

// EdgeBetween returns the edge connecting a and b, in either direction.
func (g *Grid) EdgeBetween(a, b NodeID) (EdgeID, bool) {
	id, ok := g.pairs[keyOf(a, b)]
	return id, ok
}

// FaceCorners returns the three corner points of face id.
func (g *Grid) FaceCorners(id FaceID) [3]orb.Point {
	f := g.faces[id]
	return [3]orb.Point{
		g.nodes[f.Nodes[0]].Point,
		g.nodes[f.Nodes[1]].Point,
		g.nodes[f.Nodes[2]].Point,
	}
}

// RequireMultiZone returns a PRECONDITION_VIOLATION error unless the grid
// holds at least two zones. Merged output of a single zone is meaningless.
func (g *Grid) RequireMultiZone() error {
	if len(g.zones) < 2 {
		return errs.New(errs.ErrCodePreconditionViolation,
			"grid is not multizone: merged output needs at least 2 zones, have %d", len(g.zones))
	}
	return nil
}
