package tecplot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
)

// Document is a decoded Tecplot file.
type Document struct {
	Title     string
	Variables []string
	Zones     []mesh.ZoneInput
}

// Read decodes a Tecplot document from r.
//
// Every zone must be an FETRIANGLE zone in BLOCK packing (both attributes
// may be omitted). The NODES and ELEMENTS counts are required and delimit
// the coordinate and connectivity blocks. Each returned zone has already
// passed [mesh.ZoneInput.Validate].
//
// Read does not close r.
func Read(r io.Reader) (*Document, error) {
	return read("", r)
}

// Import reads the Tecplot file at path.
//
// A missing file is reported as FILE_NOT_FOUND; decoding errors are the
// same as for [Read], with positions prefixed by path.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "input %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return read(path, f)
}

func read(name string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	ast, err := fileParser.ParseBytes(name, data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "malformed tecplot input")
	}

	doc := &Document{Title: ast.Title, Variables: ast.Variables}
	nvars := len(ast.Variables)
	if nvars == 0 {
		nvars = 2
	}
	if nvars < 2 {
		return nil, errs.New(errs.ErrCodeInvalidFormat,
			"need at least 2 variables for a planar grid, have %d", nvars)
	}
	for i, z := range ast.Zones {
		in, err := z.decode(i, nvars)
		if err != nil {
			return nil, err
		}
		doc.Zones = append(doc.Zones, in)
	}
	return doc, nil
}

func (z *zoneAST) decode(index, nvars int) (mesh.ZoneInput, error) {
	attrs := make(map[string]string, len(z.Attrs))
	for _, a := range z.Attrs {
		attrs[strings.ToUpper(a.Key)] = a.Value
	}

	name, ok := attrs["T"]
	if !ok {
		name = fmt.Sprintf("ZONE %d", index+1)
	}
	if v, ok := attrs["DATAPACKING"]; ok && !strings.EqualFold(v, "BLOCK") {
		return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidFormat,
			"%s: zone %q: unsupported DATAPACKING %s (only BLOCK)", z.Pos, name, v)
	}
	if v, ok := attrs["ZONETYPE"]; ok && !strings.EqualFold(v, "FETRIANGLE") {
		return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidFormat,
			"%s: zone %q: unsupported ZONETYPE %s (only FETRIANGLE)", z.Pos, name, v)
	}
	nodes, err := count(attrs, name, "NODES", "N")
	if err != nil {
		return mesh.ZoneInput{}, err
	}
	elems, err := count(attrs, name, "ELEMENTS", "E")
	if err != nil {
		return mesh.ZoneInput{}, err
	}

	// Bound the counts by the values present before multiplying them.
	if nodes > len(z.Values)/nvars || elems > len(z.Values)/3 {
		return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidFormat,
			"%s: zone %q: %d nodes and %d elements do not fit %d values", z.Pos, name, nodes, elems, len(z.Values))
	}
	ncoord := nvars * nodes
	if len(z.Values) < ncoord {
		return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidFormat,
			"%s: zone %q: expected %d coordinate values, found %d", z.Pos, name, ncoord, len(z.Values))
	}
	conn := z.Values[ncoord:]
	if len(conn) != 3*elems {
		return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidConnectivity,
			"%s: zone %q: connectivity has %d node indices, want %d (3 per element)",
			z.Pos, name, len(conn), 3*elems)
	}

	in := mesh.ZoneInput{Name: name, Points: make([]orb.Point, nodes), Faces: make([][]int, elems)}
	for i := 0; i < nodes; i++ {
		x, err := parseFloat(z.Values[i])
		if err != nil {
			return mesh.ZoneInput{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "zone %q: x of node %d", name, i+1)
		}
		y, err := parseFloat(z.Values[nodes+i])
		if err != nil {
			return mesh.ZoneInput{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "zone %q: y of node %d", name, i+1)
		}
		in.Points[i] = orb.Point{x, y}
	}
	for f := 0; f < elems; f++ {
		face := make([]int, 3)
		for k := range face {
			v := conn[3*f+k]
			idx, err := strconv.Atoi(v)
			if err != nil {
				return mesh.ZoneInput{}, errs.New(errs.ErrCodeInvalidConnectivity,
					"zone %q face %d: node index %q is not an integer", name, f+1, v)
			}
			face[k] = idx
		}
		in.Faces[f] = face
	}
	if err := in.Validate(); err != nil {
		return mesh.ZoneInput{}, err
	}
	return in, nil
}

func count(attrs map[string]string, zone string, keys ...string) (int, error) {
	for _, k := range keys {
		v, ok := attrs[k]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, errs.New(errs.ErrCodeInvalidFormat, "zone %q: %s must be a non-negative integer, got %q", zone, k, v)
		}
		return n, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidFormat, "zone %q: missing %s", zone, keys[0])
}

// parseFloat accepts the spellings written by formatFloat as well as
// anything strconv understands. Overflowing literals are rejected.
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
