// Package pkg provides the libraries behind gridmerge, which merges
// multi-zone triangular meshes into one conforming grid.
//
// # Overview
//
// A structured-unstructured solver writes its mesh as several zones, each
// with its own node numbering. Nodes on zone interfaces appear once per
// zone. gridmerge identifies coincident nodes across zones, shares the
// edges between them and assigns one global numbering:
//
//	Tecplot file
//	     ↓
//	[tecplot] package (parse zones)
//	     ↓
//	[mesh] package (merge zones, match nodes via [mesh/match])
//	     ↓
//	[tecplot], [export/geojson], [render/wireframe] (write)
//
// [pipeline] chains the three steps and is shared by the CLI and the HTTP
// server.
//
// # Quick Start
//
//	doc, err := tecplot.Import("wing.dat")
//	if err != nil {
//	    return err
//	}
//	g, err := mesh.Merge(match.SortedTwoSided, doc.Zones...)
//	if err != nil {
//	    return err
//	}
//	err = tecplot.Export("wing-merged.dat", g, tecplot.Options{Mode: tecplot.ModeMerged})
//
// # Packages
//
//   - [mesh]: grid arenas, zone merging, id assignment and invariants
//   - [mesh/match]: coincident-node lookup strategies
//   - [tecplot]: FETRIANGLE block-format reader and writer
//   - [export/geojson]: faces as GeoJSON polygons
//   - [render/wireframe]: Graphviz DOT and SVG wireframes
//   - [pipeline]: read, merge and render orchestration with hooks
//   - [cache]: result cache for the HTTP server
//   - [observability]: pipeline and HTTP hooks
//   - [errors]: coded errors and input validation
//
// [mesh]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/mesh
// [mesh/match]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/mesh/match
// [tecplot]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/tecplot
// [export/geojson]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/export/geojson
// [render/wireframe]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/render/wireframe
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/gridmerge/pkg/errors
package pkg
