package mesh

// BuildResult reports what a single AddZone call contributed to the grid.
type BuildResult struct {
	Zone       ZoneID
	NodesAdded int // canonical nodes created (points not already in the grid)
	EdgesAdded int // edges created; reused edges are not counted
	FacesAdded int
}

// AddZone merges one zone into the grid.
//
// The zone's points are resolved to canonical nodes through the grid's
// matcher, inserting the ones that do not exist yet. Each triangle then
// becomes a new face over those nodes; its three edges are looked up by
// node pair and reused when present, created otherwise.
//
// The zone is validated first. On an INVALID_CONNECTIVITY error nothing has
// been added to the grid.
func (g *Grid) AddZone(in ZoneInput) (BuildResult, error) {
	if err := in.Validate(); err != nil {
		return BuildResult{}, err
	}

	zid := ZoneID(len(g.zones))
	res := BuildResult{Zone: zid}

	local := make([]NodeID, len(in.Points))
	for i, p := range in.Points {
		h, inserted := g.matcher.FindOrInsert(p)
		if inserted {
			g.nodes = append(g.nodes, Node{Point: p})
			res.NodesAdded++
		}
		local[i] = NodeID(h)
	}

	faces := make([]FaceID, 0, len(in.Faces))
	for _, idx := range in.Faces {
		faces = append(faces, g.addFace(zid, local, idx, &res))
	}

	g.zones = append(g.zones, Zone{Name: in.Name, Nodes: local, Faces: faces})
	return res, nil
}

// addFace creates the face for one validated index triple and links it to
// its nodes and edges.
func (g *Grid) addFace(zid ZoneID, local []NodeID, idx []int, res *BuildResult) FaceID {
	fid := FaceID(len(g.faces))
	f := Face{Zone: zid, Local: [3]int{idx[0], idx[1], idx[2]}}
	for k := range f.Nodes {
		f.Nodes[k] = local[idx[k]-1]
	}
	for _, n := range f.Nodes {
		g.nodes[n].Faces = append(g.nodes[n].Faces, fid)
	}

	for k := range f.Edges {
		a, b := f.Nodes[k], f.Nodes[(k+1)%3]
		eid, created := g.edgeFor(a, b)
		if created {
			res.EdgesAdded++
		}
		g.edges[eid].Faces = append(g.edges[eid].Faces, fid)
		f.Edges[k] = eid
	}

	g.faces = append(g.faces, f)
	res.FacesAdded++
	return fid
}

// edgeFor returns the edge between a and b, creating it when the pair has
// no edge yet.
func (g *Grid) edgeFor(a, b NodeID) (EdgeID, bool) {
	key := keyOf(a, b)
	if id, ok := g.pairs[key]; ok {
		return id, false
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{Nodes: [2]NodeID{a, b}})
	g.pairs[key] = id
	g.nodes[a].Edges = append(g.nodes[a].Edges, id)
	if b != a {
		g.nodes[b].Edges = append(g.nodes[b].Edges, id)
	}
	return id, true
}
