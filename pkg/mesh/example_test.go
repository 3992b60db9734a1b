package mesh_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
)

func ExampleMerge() {
	// Two triangles produced separately; they share the edge (1,0)-(0,1).
	a := mesh.ZoneInput{
		Name:   "A",
		Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}},
		Faces:  [][]int{{1, 2, 3}},
	}
	b := mesh.ZoneInput{
		Name:   "B",
		Points: []orb.Point{{1, 0}, {0, 1}, {1, 1}},
		Faces:  [][]int{{1, 2, 3}},
	}

	g, err := mesh.Merge(match.SortedTwoSided, a, b)
	if err != nil {
		panic(err)
	}
	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Faces:", g.FaceCount())
	// Output:
	// Nodes: 4
	// Edges: 5
	// Faces: 2
}

func ExampleGrid_AddZone() {
	g, _ := mesh.New(match.Linear)
	_, err := g.AddZone(mesh.ZoneInput{
		Name:   "broken",
		Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}},
		Faces:  [][]int{{1, 2, 4}},
	})
	fmt.Println(err)
	fmt.Println("Zones:", g.ZoneCount())
	// Output:
	// INVALID_CONNECTIVITY: zone "broken" face 1: node index 4 out of range [1, 3]
	// Zones: 0
}

func ExampleGrid_AssignIDs() {
	g, _ := mesh.Merge(match.SortedOneSided, mesh.ZoneInput{
		Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}},
		Faces:  [][]int{{1, 2, 3}},
	})
	g.AssignIDs()
	for _, e := range g.Edges() {
		fmt.Println(e.ID, g.Node(e.Nodes[0]).ID, g.Node(e.Nodes[1]).ID)
	}
	// Output:
	// 1 1 2
	// 2 2 3
	// 3 3 1
}
