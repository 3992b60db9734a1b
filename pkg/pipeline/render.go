package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/gridmerge/pkg/export/geojson"
	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/render/wireframe"
	"github.com/matzehuels/gridmerge/pkg/tecplot"
)

// Render encodes g in opts.Format. Options must have been validated.
func Render(ctx context.Context, g *mesh.Grid, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatTecplot:
		var buf bytes.Buffer
		err := tecplot.Write(&buf, g, tecplot.Options{Mode: opts.OutputMode(), Title: opts.Title})
		if err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatGeoJSON:
		return geojson.Marshal(g, opts.OutputMode())
	case FormatDOT:
		return []byte(wireframe.ToDOT(g, wireframeOptions(opts))), nil
	case FormatSVG:
		return wireframe.RenderSVG(ctx, wireframe.ToDOT(g, wireframeOptions(opts)))
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

func wireframeOptions(opts Options) wireframe.Options {
	return wireframe.Options{
		Scale:      opts.Scale,
		Labels:     opts.Labels,
		ZoneColors: opts.ZoneColors,
	}
}
