// Package geojson exports a merged grid as a GeoJSON FeatureCollection.
//
// Every face becomes a Polygon feature whose exterior ring is the closed
// triangle. Features carry three properties:
//
//   - "face": 1-based position of the face in the output
//   - "zone": name of the zone the face came from
//   - "nodes": the face's three 1-based node positions
//
// Node positions follow the same numbering as the Tecplot writer: local to
// the zone in [tecplot.ModeZones], global in [tecplot.ModeMerged].
package geojson

import (
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/tecplot"
)

// FeatureCollection builds the collection for g.
//
// Non-finite coordinates cannot be represented in JSON and are rejected
// with INVALID_INPUT. In merged mode the grid must hold at least two zones.
func FeatureCollection(g *mesh.Grid, mode tecplot.Mode) (*geojson.FeatureCollection, error) {
	if mode == tecplot.ModeMerged {
		if err := g.RequireMultiZone(); err != nil {
			return nil, err
		}
	}
	for i, n := range g.Nodes() {
		if !finite(n.Point) {
			return nil, errs.New(errs.ErrCodeInvalidInput,
				"node %d has non-finite coordinates %v; GeoJSON needs finite numbers", i+1, n.Point)
		}
	}

	fc := geojson.NewFeatureCollection()
	if g.NodeCount() > 0 {
		fc.BBox = geojson.NewBBox(g.Stats().Bound)
	}
	zones := g.Zones()
	face := 0
	for zi, z := range zones {
		pos := z.Positions()
		for _, fid := range z.Faces {
			f := g.Face(fid)
			c := g.FaceCorners(fid)
			feat := geojson.NewFeature(orb.Polygon{orb.Ring{c[0], c[1], c[2], c[0]}})
			nodes := make([]int, 3)
			for k, n := range f.Nodes {
				if mode == tecplot.ModeMerged {
					nodes[k] = int(n) + 1
				} else {
					nodes[k] = pos[n]
				}
			}
			face++
			feat.Properties["face"] = face
			feat.Properties["zone"] = zoneName(z, zi)
			feat.Properties["nodes"] = nodes
			fc.Append(feat)
		}
	}
	return fc, nil
}

// Marshal encodes g as GeoJSON.
func Marshal(g *mesh.Grid, mode tecplot.Mode) ([]byte, error) {
	fc, err := FeatureCollection(g, mode)
	if err != nil {
		return nil, err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return data, nil
}

// Write encodes g as GeoJSON to w, followed by a newline.
func Write(w io.Writer, g *mesh.Grid, mode tecplot.Mode) error {
	data, err := Marshal(g, mode)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func zoneName(z mesh.Zone, i int) string {
	if z.Name != "" {
		return z.Name
	}
	return fmt.Sprintf("ZONE %d", i+1)
}

func finite(p orb.Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
