package mesh

import "github.com/paulmach/orb"

// Stats summarizes a grid.
type Stats struct {
	Zones int
	Nodes int
	Edges int
	Faces int

	// BoundaryEdges counts edges with exactly one incident face.
	BoundaryEdges int
	// OverSharedEdges counts edges with more than two incident faces.
	// They are reported, not rejected.
	OverSharedEdges int
	// SharedNodes counts canonical nodes referenced by more than one zone.
	SharedNodes int

	// Bound is the bounding box of all canonical nodes.
	Bound orb.Bound
}

// Stats computes summary statistics of the grid.
func (g *Grid) Stats() Stats {
	s := Stats{
		Zones: len(g.zones),
		Nodes: len(g.nodes),
		Edges: len(g.edges),
		Faces: len(g.faces),
		Bound: orb.MultiPoint(g.matcher.Store().Points()).Bound(),
	}
	for _, e := range g.edges {
		switch n := len(e.Faces); {
		case n == 1:
			s.BoundaryEdges++
		case n > 2:
			s.OverSharedEdges++
		}
	}

	owners := make([]int, len(g.nodes))
	last := make([]int, len(g.nodes))
	for i := range last {
		last[i] = -1
	}
	for zi, z := range g.zones {
		for _, n := range z.Nodes {
			if last[n] != zi {
				last[n] = zi
				owners[n]++
			}
		}
	}
	for _, c := range owners {
		if c > 1 {
			s.SharedNodes++
		}
	}
	return s
}

// ZoneStats summarizes one zone.
type ZoneStats struct {
	Name        string
	Points      int // local points, duplicates included
	UniqueNodes int // distinct canonical nodes among the local points
	Faces       int
}

// ZoneStats computes per-zone statistics in merge order.
func (g *Grid) ZoneStats() []ZoneStats {
	out := make([]ZoneStats, len(g.zones))
	for i, z := range g.zones {
		out[i] = ZoneStats{
			Name:        z.Name,
			Points:      len(z.Nodes),
			UniqueNodes: len(z.Positions()),
			Faces:       len(z.Faces),
		}
	}
	return out
}
