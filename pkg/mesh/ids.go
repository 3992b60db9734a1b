package mesh

// AssignIDs numbers nodes, edges and faces 1..N in their global sequence
// order. Zones are not numbered; their output numbering is positional.
//
// The pass only writes ID fields, so calling it again on an unmodified grid
// yields the same assignment. Call it again after AddZone.
func (g *Grid) AssignIDs() {
	for i := range g.nodes {
		g.nodes[i].ID = i + 1
	}
	for i := range g.edges {
		g.edges[i].ID = i + 1
	}
	for i := range g.faces {
		g.faces[i].ID = i + 1
	}
}

// IDs returns the current node, edge and face identifiers in global order.
func (g *Grid) IDs() (nodes, edges, faces []int) {
	nodes = make([]int, len(g.nodes))
	for i, n := range g.nodes {
		nodes[i] = n.ID
	}
	edges = make([]int, len(g.edges))
	for i, e := range g.edges {
		edges[i] = e.ID
	}
	faces = make([]int, len(g.faces))
	for i, f := range g.faces {
		faces[i] = f.ID
	}
	return nodes, edges, faces
}
