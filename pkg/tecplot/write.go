package tecplot

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
)

// DefaultTitle is the document title written when none is configured.
const DefaultTitle = "GRID"

// Mode selects how a grid is laid out in the output file.
type Mode int

const (
	// ModeZones writes every zone separately with local numbering.
	ModeZones Mode = iota
	// ModeMerged writes the whole grid as a single zone.
	ModeMerged
)

var modeNames = [...]string{ModeZones: "zones", ModeMerged: "merged"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode returns the mode with the given name ("zones" or "merged").
func ParseMode(name string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Mode(i), nil
		}
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "unknown output mode %q (must be zones or merged)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Options configures Write and Export.
type Options struct {
	Mode  Mode
	Title string // defaults to DefaultTitle
}

// Write encodes g to w.
//
// In [ModeMerged] the grid must hold at least two zones; otherwise Write
// returns a PRECONDITION_VIOLATION error and writes nothing. Zone names and
// the title are checked with [errs.ValidateZoneName] before any output.
func Write(w io.Writer, g *mesh.Grid, opts Options) error {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	if err := errs.ValidateZoneName(title); err != nil {
		return err
	}

	var blocks []block
	switch opts.Mode {
	case ModeZones:
		blocks = zoneBlocks(g)
	case ModeMerged:
		if err := g.RequireMultiZone(); err != nil {
			return err
		}
		blocks = []block{mergedBlock(g)}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown output mode %d", int(opts.Mode))
	}
	for _, b := range blocks {
		if err := errs.ValidateZoneName(b.name); err != nil {
			return err
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "TITLE = %q\n", title)
	bw.WriteString("VARIABLES = \"X\", \"Y\"\n")
	for _, b := range blocks {
		b.writeTo(bw)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Export writes g to the file at path, creating or truncating it.
func Export(path string, g *mesh.Grid, opts Options) error {
	if err := errs.ValidateOutputPath(path); err != nil {
		return err
	}
	if opts.Mode == ModeMerged {
		// Fail before touching the file.
		if err := g.RequireMultiZone(); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, g, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// block is one ZONE section: points in output order and faces as 1-based
// positions into them.
type block struct {
	name   string
	points []orb.Point
	faces  [][3]int
}

func zoneBlocks(g *mesh.Grid) []block {
	zones := g.Zones()
	out := make([]block, len(zones))
	for i, z := range zones {
		name := z.Name
		if name == "" {
			name = fmt.Sprintf("ZONE %d", i+1)
		}
		b := block{name: name, points: make([]orb.Point, len(z.Nodes)), faces: make([][3]int, len(z.Faces))}
		for j, n := range z.Nodes {
			b.points[j] = g.Node(n).Point
		}
		pos := z.Positions()
		for j, fid := range z.Faces {
			f := g.Face(fid)
			b.faces[j] = [3]int{pos[f.Nodes[0]], pos[f.Nodes[1]], pos[f.Nodes[2]]}
		}
		out[i] = b
	}
	return out
}

func mergedBlock(g *mesh.Grid) block {
	nodes, faces := g.Nodes(), g.Faces()
	b := block{name: "ZONE 1", points: make([]orb.Point, len(nodes)), faces: make([][3]int, len(faces))}
	for i, n := range nodes {
		b.points[i] = n.Point
	}
	for i, f := range faces {
		b.faces[i] = [3]int{int(f.Nodes[0]) + 1, int(f.Nodes[1]) + 1, int(f.Nodes[2]) + 1}
	}
	return b
}

func (b block) writeTo(w *bufio.Writer) {
	fmt.Fprintf(w, "ZONE T = %q\n", b.name)
	fmt.Fprintf(w, "NODES = %d\n", len(b.points))
	fmt.Fprintf(w, "ELEMENTS = %d\n", len(b.faces))
	w.WriteString("DATAPACKING = BLOCK\n")
	w.WriteString("ZONETYPE = FETRIANGLE\n")
	for axis := 0; axis < 2; axis++ {
		for _, p := range b.points {
			w.WriteString(formatFloat(p[axis]))
			w.WriteByte(' ')
		}
		w.WriteByte('\n')
	}
	for _, f := range b.faces {
		for _, idx := range f {
			w.WriteString(strconv.Itoa(idx))
			w.WriteByte(' ')
		}
		w.WriteByte('\n')
	}
}

// formatFloat writes the shortest representation that reads back to the
// same value. Integral values keep a ".0" suffix.
//
// Every NaN is written as "nan" and reads back as the default quiet NaN,
// so sign and payload bits are not preserved. Nodes whose coordinates are
// distinct NaNs in memory match each other after a write and read.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
