// Package tecplot reads and writes triangular zones in the Tecplot ASCII
// format.
//
// # Overview
//
// This package is the file adapter around the merge engine in [mesh]. It
// decodes multi-zone Tecplot files into [mesh.ZoneInput] values and encodes
// a merged [mesh.Grid] back into Tecplot, either zone by zone or as one
// merged zone.
//
// # Format
//
// Only finite-element triangle zones in block packing are supported:
//
//	TITLE = "GRID"
//	VARIABLES = "X", "Y"
//	ZONE T = "ZONE 1"
//	NODES = 3
//	ELEMENTS = 1
//	DATAPACKING = BLOCK
//	ZONETYPE = FETRIANGLE
//	0.0 1.0 0.0
//	0.0 0.0 1.0
//	1 2 3
//
// After the zone header come all x values, then all y values, then three
// 1-based node indices per element. Line breaks are not significant when
// reading; the counts in the header delimit the blocks. Additional variables
// (e.g. "Z") are read and ignored. N and E are accepted as short forms of
// NODES and ELEMENTS.
//
// # Import
//
// Use [Import] to read from a file path, or [Read] to read from any
// io.Reader:
//
//	doc, err := tecplot.Import("zones.dat")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := mesh.Merge(match.SortedTwoSided, doc.Zones...)
//
// Syntax errors and inconsistent counts are reported as INVALID_FORMAT.
// Faces that are not triangles, indices that are not integers and indices
// outside the zone are reported as INVALID_CONNECTIVITY, before any zone
// reaches the merge engine.
//
// # Export
//
// Use [Export] to write to a file, or [Write] to write to any io.Writer.
// [ModeZones] writes every zone with its own local numbering starting at 1;
// [ModeMerged] writes one zone using the global node order and requires at
// least two zones. Every value is followed by a single space, as in files
// produced by the original tool.
//
// [mesh]: github.com/matzehuels/gridmerge/pkg/mesh
package tecplot
