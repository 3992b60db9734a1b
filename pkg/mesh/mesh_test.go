package mesh

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"testing"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
)

func singleTriangle() ZoneInput {
	return ZoneInput{
		Name:   "A",
		Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}},
		Faces:  [][]int{{1, 2, 3}},
	}
}

func neighbourTriangle() ZoneInput {
	return ZoneInput{
		Name:   "B",
		Points: []orb.Point{{1, 0}, {0, 1}, {1, 1}},
		Faces:  [][]int{{1, 2, 3}},
	}
}

// squareZone returns a zone covering cells x cells unit squares with its
// lower-left corner at (x0, y0). Each square is split into two triangles.
func squareZone(name string, x0, y0 float64, cells int) ZoneInput {
	in := ZoneInput{Name: name}
	for j := 0; j <= cells; j++ {
		for i := 0; i <= cells; i++ {
			in.Points = append(in.Points, orb.Point{x0 + float64(i), y0 + float64(j)})
		}
	}
	at := func(i, j int) int { return j*(cells+1) + i + 1 }
	for j := 0; j < cells; j++ {
		for i := 0; i < cells; i++ {
			in.Faces = append(in.Faces,
				[]int{at(i, j), at(i+1, j), at(i+1, j+1)},
				[]int{at(i, j), at(i+1, j+1), at(i, j+1)},
			)
		}
	}
	return in
}

func quadrants() []ZoneInput {
	return []ZoneInput{
		squareZone("SW", 0, 0, 2),
		squareZone("SE", 2, 0, 2),
		squareZone("NW", 0, 2, 2),
		squareZone("NE", 2, 2, 2),
	}
}

func mustMerge(t *testing.T, s match.Strategy, zones ...ZoneInput) *Grid {
	t.Helper()
	g, err := Merge(s, zones...)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return g
}

func TestSingleTriangle(t *testing.T) {
	for _, s := range match.Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			g := mustMerge(t, s, singleTriangle())
			if g.NodeCount() != 3 || g.EdgeCount() != 3 || g.FaceCount() != 1 {
				t.Errorf("counts = %d/%d/%d, want 3/3/1", g.NodeCount(), g.EdgeCount(), g.FaceCount())
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestSharedEdge(t *testing.T) {
	for _, s := range match.Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			g, err := New(s)
			if err != nil {
				t.Fatal(err)
			}
			first, err := g.AddZone(singleTriangle())
			if err != nil {
				t.Fatal(err)
			}
			second, err := g.AddZone(neighbourTriangle())
			if err != nil {
				t.Fatal(err)
			}

			if first != (BuildResult{Zone: 0, NodesAdded: 3, EdgesAdded: 3, FacesAdded: 1}) {
				t.Errorf("first zone result = %+v", first)
			}
			if second != (BuildResult{Zone: 1, NodesAdded: 1, EdgesAdded: 2, FacesAdded: 1}) {
				t.Errorf("second zone result = %+v", second)
			}
			if g.NodeCount() != 4 || g.EdgeCount() != 5 || g.FaceCount() != 2 {
				t.Errorf("counts = %d/%d/%d, want 4/5/2", g.NodeCount(), g.EdgeCount(), g.FaceCount())
			}

			// (1,0) and (0,1) are nodes 1 and 2; their edge carries both faces.
			eid, ok := g.EdgeBetween(2, 1)
			if !ok {
				t.Fatal("no edge between the shared nodes")
			}
			if got := g.Edge(eid).Faces; !slices.Equal(got, []FaceID{0, 1}) {
				t.Errorf("shared edge faces = %v, want [0 1]", got)
			}

			zb := g.Zone(1)
			if !slices.Equal(zb.Nodes, []NodeID{1, 2, 3}) {
				t.Errorf("zone B nodes = %v, want [1 2 3]", zb.Nodes)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestAddZoneInvalidConnectivity(t *testing.T) {
	tests := []struct {
		name  string
		faces [][]int
	}{
		{"index past end", [][]int{{1, 2, 4}}},
		{"index zero", [][]int{{0, 1, 2}}},
		{"negative index", [][]int{{1, -2, 3}}},
		{"two indices", [][]int{{1, 2}}},
		{"four indices", [][]int{{1, 2, 3, 1}}},
		{"bad face after good one", [][]int{{1, 2, 3}, {1, 2, 9}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustMerge(t, match.SortedTwoSided, singleTriangle())
			before := g.Stats()

			in := neighbourTriangle()
			in.Faces = tt.faces
			_, err := g.AddZone(in)
			if !errs.Is(err, errs.ErrCodeInvalidConnectivity) {
				t.Fatalf("AddZone error = %v, want %v", err, errs.ErrCodeInvalidConnectivity)
			}

			if after := g.Stats(); after != before {
				t.Errorf("grid changed by failed AddZone: %+v -> %+v", before, after)
			}
			if g.matcher.Store().Len() != before.Nodes {
				t.Error("failed AddZone inserted points into the matcher store")
			}
		})
	}
}

func TestMergeWrapsZoneIndex(t *testing.T) {
	bad := neighbourTriangle()
	bad.Faces = [][]int{{1, 2, 4}}
	_, err := Merge(match.Linear, singleTriangle(), bad)
	if !errs.Is(err, errs.ErrCodeInvalidConnectivity) {
		t.Fatalf("Merge error = %v, want %v", err, errs.ErrCodeInvalidConnectivity)
	}
	if got := err.Error(); got[:7] != "zone 2:" {
		t.Errorf("error = %q, want zone 2 prefix", got)
	}
}

func TestNewUnknownStrategy(t *testing.T) {
	if _, err := New(match.Strategy(9)); !errs.Is(err, errs.ErrCodeUnknownMergeStrategy) {
		t.Fatalf("New error = %v, want %v", err, errs.ErrCodeUnknownMergeStrategy)
	}
	if _, err := Merge(match.Strategy(9), singleTriangle()); !errs.Is(err, errs.ErrCodeUnknownMergeStrategy) {
		t.Fatalf("Merge error = %v, want %v", err, errs.ErrCodeUnknownMergeStrategy)
	}
}

func TestRequireMultiZone(t *testing.T) {
	g := mustMerge(t, match.Linear, singleTriangle())
	if err := g.RequireMultiZone(); !errs.Is(err, errs.ErrCodePreconditionViolation) {
		t.Errorf("single zone: error = %v, want %v", err, errs.ErrCodePreconditionViolation)
	}
	if _, err := g.AddZone(neighbourTriangle()); err != nil {
		t.Fatal(err)
	}
	if err := g.RequireMultiZone(); err != nil {
		t.Errorf("two zones: %v", err)
	}
}

func TestQuadrantsEdgeUniqueness(t *testing.T) {
	for _, s := range match.Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			g := mustMerge(t, s, quadrants()...)

			// A 4x4 square grid: 25 nodes, 32 faces, 40 axis edges + 16 diagonals.
			if g.NodeCount() != 25 || g.FaceCount() != 32 || g.EdgeCount() != 56 {
				t.Fatalf("counts = %d/%d/%d, want 25/32/56", g.NodeCount(), g.FaceCount(), g.EdgeCount())
			}
			if err := g.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}

			// Every node pair used by a face has exactly one edge object.
			count := make(map[pairKey]int)
			for _, e := range g.Edges() {
				count[keyOf(e.Nodes[0], e.Nodes[1])]++
			}
			for fi, f := range g.Faces() {
				for k := range f.Nodes {
					key := keyOf(f.Nodes[k], f.Nodes[(k+1)%3])
					if count[key] != 1 {
						t.Errorf("face %d: %d edges for pair %v", fi, count[key], key)
					}
				}
			}

			st := g.Stats()
			if st.BoundaryEdges != 16 {
				t.Errorf("BoundaryEdges = %d, want 16", st.BoundaryEdges)
			}
			// The interior cross (x=2 or y=2) is shared by more than one zone.
			if st.SharedNodes != 9 {
				t.Errorf("SharedNodes = %d, want 9", st.SharedNodes)
			}
			if st.Bound != (orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}) {
				t.Errorf("Bound = %v", st.Bound)
			}
		})
	}
}

// canonical describes a grid by coordinates only, so grids built in
// different orders can be compared as sets.
type canonical struct {
	nodes []string
	edges []string
	faces []string
}

func describe(g *Grid) canonical {
	pt := func(n NodeID) string { p := g.Node(n).Point; return fmt.Sprintf("(%g,%g)", p[0], p[1]) }
	var c canonical
	for i := range g.Nodes() {
		c.nodes = append(c.nodes, pt(NodeID(i)))
	}
	for _, e := range g.Edges() {
		ends := []string{pt(e.Nodes[0]), pt(e.Nodes[1])}
		sort.Strings(ends)
		c.edges = append(c.edges, fmt.Sprint(ends))
	}
	for _, f := range g.Faces() {
		corners := []string{pt(f.Nodes[0]), pt(f.Nodes[1]), pt(f.Nodes[2])}
		sort.Strings(corners)
		c.faces = append(c.faces, fmt.Sprint(corners))
	}
	sort.Strings(c.nodes)
	sort.Strings(c.edges)
	sort.Strings(c.faces)
	return c
}

func TestMergeOrderIndependence(t *testing.T) {
	zones := quadrants()
	reversed := slices.Clone(zones)
	slices.Reverse(reversed)

	for _, s := range match.Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			a := describe(mustMerge(t, s, zones...))
			b := describe(mustMerge(t, s, reversed...))
			if !slices.Equal(a.nodes, b.nodes) {
				t.Error("node sets differ")
			}
			if !slices.Equal(a.edges, b.edges) {
				t.Error("edge sets differ")
			}
			if !slices.Equal(a.faces, b.faces) {
				t.Error("face sets differ")
			}
		})
	}
}

func TestStrategiesAgree(t *testing.T) {
	var ref canonical
	for i, s := range match.Strategies() {
		got := describe(mustMerge(t, s, quadrants()...))
		if i == 0 {
			ref = got
			continue
		}
		if !slices.Equal(got.nodes, ref.nodes) || !slices.Equal(got.edges, ref.edges) {
			t.Errorf("%v disagrees with %v", s, match.Linear)
		}
	}
}

func TestAssignIDsIdempotent(t *testing.T) {
	g := mustMerge(t, match.SortedOneSided, quadrants()...)

	n0, _, _ := g.IDs()
	if n0[0] != 0 {
		t.Fatalf("IDs should be unset before AssignIDs, got %d", n0[0])
	}

	g.AssignIDs()
	n1, e1, f1 := g.IDs()
	g.AssignIDs()
	n2, e2, f2 := g.IDs()

	if !slices.Equal(n1, n2) || !slices.Equal(e1, e2) || !slices.Equal(f1, f2) {
		t.Error("AssignIDs is not idempotent")
	}
	for i, id := range n1 {
		if id != i+1 {
			t.Fatalf("node %d has ID %d, want %d", i, id, i+1)
		}
	}
	if e1[len(e1)-1] != g.EdgeCount() || f1[len(f1)-1] != g.FaceCount() {
		t.Error("edge or face IDs are not dense")
	}
}

func TestZoneKeepsDuplicatePositions(t *testing.T) {
	in := ZoneInput{
		Name:   "dup",
		Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}, {1, 0}},
		Faces:  [][]int{{1, 4, 3}},
	}
	g := mustMerge(t, match.SortedTwoSided, in)

	z := g.Zone(0)
	if !slices.Equal(z.Nodes, []NodeID{0, 1, 2, 1}) {
		t.Errorf("zone nodes = %v, want [0 1 2 1]", z.Nodes)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", g.NodeCount())
	}
	if pos := z.Positions(); pos[1] != 2 {
		t.Errorf("first position of node 1 = %d, want 2", pos[1])
	}
	if f := g.Face(0); f.Local != [3]int{1, 4, 3} || f.Nodes != [3]NodeID{0, 1, 2} {
		t.Errorf("face = %+v", f)
	}

	zs := g.ZoneStats()
	if zs[0].Points != 4 || zs[0].UniqueNodes != 3 {
		t.Errorf("ZoneStats = %+v", zs[0])
	}
}

func TestValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(g *Grid)
		want    error
	}{
		{
			name:    "duplicate edge",
			corrupt: func(g *Grid) { g.edges = append(g.edges, g.edges[0]) },
			want:    ErrBrokenAdjacency,
		},
		{
			name:    "dangling face handle",
			corrupt: func(g *Grid) { g.edges[0].Faces = append(g.edges[0].Faces, 99) },
			want:    ErrDanglingHandle,
		},
		{
			name:    "missing node back-reference",
			corrupt: func(g *Grid) { g.nodes[0].Faces = nil },
			want:    ErrBrokenAdjacency,
		},
		{
			name:    "zone node out of range",
			corrupt: func(g *Grid) { g.zones[0].Nodes = append(g.zones[0].Nodes, 42) },
			want:    ErrDanglingHandle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustMerge(t, match.Linear, singleTriangle(), neighbourTriangle())
			tt.corrupt(g)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateDuplicateEdge(t *testing.T) {
	g := mustMerge(t, match.Linear, singleTriangle())
	dup := g.edges[0]
	dup.Faces = nil
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, dup)
	for _, n := range dup.Nodes {
		g.nodes[n].Edges = append(g.nodes[n].Edges, id)
	}
	if err := g.Validate(); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("Validate() = %v, want %v", err, ErrDuplicateEdge)
	}
}
