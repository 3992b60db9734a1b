// Package wireframe renders a merged grid as a Graphviz wireframe.
//
// # Overview
//
// Every canonical node becomes a Graphviz node pinned at its coordinates and
// every edge becomes an undirected Graphviz edge, so the drawing is the mesh
// itself rather than a computed layout. Boundary edges (one incident face)
// are drawn heavier, which makes gaps between zones that failed to merge
// easy to spot.
//
// # Usage
//
//	dot := wireframe.ToDOT(g, wireframe.Options{Scale: 2})
//	svg, err := wireframe.RenderSVG(ctx, dot)
//
// The DOT source can also be written out and processed with external
// Graphviz tools; use "neato -n2" or keep the default neato engine so the
// pinned positions are honoured.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine.
package wireframe
