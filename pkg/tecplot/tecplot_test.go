package tecplot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
)

func twoTriangles(t *testing.T) *mesh.Grid {
	t.Helper()
	g, err := mesh.Merge(match.DefaultStrategy,
		mesh.ZoneInput{Name: "A", Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}}, Faces: [][]int{{1, 2, 3}}},
		mesh.ZoneInput{Name: "B", Points: []orb.Point{{1, 0}, {0, 1}, {1, 1}}, Faces: [][]int{{1, 2, 3}}},
	)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	return g
}

const zonesOutput = `TITLE = "GRID"
VARIABLES = "X", "Y"
ZONE T = "A"
NODES = 3
ELEMENTS = 1
DATAPACKING = BLOCK
ZONETYPE = FETRIANGLE
0.0 1.0 0.0 
0.0 0.0 1.0 
1 2 3 
ZONE T = "B"
NODES = 3
ELEMENTS = 1
DATAPACKING = BLOCK
ZONETYPE = FETRIANGLE
1.0 0.0 1.0 
0.0 1.0 1.0 
1 2 3 
`

const mergedOutput = `TITLE = "GRID"
VARIABLES = "X", "Y"
ZONE T = "ZONE 1"
NODES = 4
ELEMENTS = 2
DATAPACKING = BLOCK
ZONETYPE = FETRIANGLE
0.0 1.0 0.0 1.0 
0.0 0.0 1.0 1.0 
1 2 3 
2 3 4 
`

func TestWrite(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		want string
	}{
		{"zones", ModeZones, zonesOutput},
		{"merged", ModeMerged, mergedOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, twoTriangles(t), Options{Mode: tt.mode}); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWriteMergedSingleZone(t *testing.T) {
	g, err := mesh.Merge(match.DefaultStrategy,
		mesh.ZoneInput{Name: "A", Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}}, Faces: [][]int{{1, 2, 3}}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = Write(&buf, g, Options{Mode: ModeMerged})
	if !errs.Is(err, errs.ErrCodePreconditionViolation) {
		t.Fatalf("Write: got %v, want PRECONDITION_VIOLATION", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Write produced %d bytes on failure", buf.Len())
	}
}

func TestWriteRejectsQuotedName(t *testing.T) {
	g, err := mesh.Merge(match.DefaultStrategy,
		mesh.ZoneInput{Name: `a"b`, Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}}, Faces: [][]int{{1, 2, 3}}})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, Options{}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Fatalf("Write: got %v, want INVALID_INPUT", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Write produced %d bytes on failure", buf.Len())
	}
}

func TestReadWritten(t *testing.T) {
	doc, err := Read(strings.NewReader(zonesOutput))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.Title != "GRID" {
		t.Errorf("Title = %q, want GRID", doc.Title)
	}
	if len(doc.Variables) != 2 || doc.Variables[0] != "X" || doc.Variables[1] != "Y" {
		t.Errorf("Variables = %q", doc.Variables)
	}
	if len(doc.Zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(doc.Zones))
	}
	b := doc.Zones[1]
	if b.Name != "B" {
		t.Errorf("zone name = %q, want B", b.Name)
	}
	want := []orb.Point{{1, 0}, {0, 1}, {1, 1}}
	for i, p := range want {
		if b.Points[i] != p {
			t.Errorf("point %d = %v, want %v", i, b.Points[i], p)
		}
	}
	if len(b.Faces) != 1 || b.Faces[0][0] != 1 || b.Faces[0][1] != 2 || b.Faces[0][2] != 3 {
		t.Errorf("faces = %v", b.Faces)
	}

	g, err := mesh.Merge(match.DefaultStrategy, doc.Zones...)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, Options{Mode: ModeMerged}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if buf.String() != mergedOutput {
		t.Errorf("merged round trip mismatch:\n%s", buf.String())
	}
}

func TestReadFreeLayout(t *testing.T) {
	src := `VARIABLES = "X" "Y" "Z"
ZONE T="quad", N=4, E=2, ZONETYPE=FETRIANGLE
0 1 1 0   0 0 1 1
9 9 9 9
1 2 3  1 3 4
ZONE N=3 E=1
-1.5e0 .5 +2
-inf nan 1e-05
0 0 0
1 2 3
`
	doc, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(doc.Zones))
	}
	q := doc.Zones[0]
	if q.Name != "quad" || len(q.Points) != 4 || len(q.Faces) != 2 {
		t.Errorf("zone 1 = %+v", q)
	}
	if q.Points[2] != (orb.Point{1, 1}) {
		t.Errorf("zone 1 point 3 = %v, want [1 1]", q.Points[2])
	}
	z := doc.Zones[1]
	if z.Name != "ZONE 2" {
		t.Errorf("default zone name = %q, want ZONE 2", z.Name)
	}
	if z.Points[0] != (orb.Point{-1.5, math.Inf(-1)}) {
		t.Errorf("point 1 = %v", z.Points[0])
	}
	if !math.IsNaN(z.Points[1][1]) || z.Points[1][0] != 0.5 {
		t.Errorf("point 2 = %v", z.Points[1])
	}
	if z.Points[2] != (orb.Point{2, 1e-5}) {
		t.Errorf("point 3 = %v", z.Points[2])
	}
}

func TestReadErrors(t *testing.T) {
	const header = "VARIABLES = \"X\", \"Y\"\n"
	tests := []struct {
		name string
		src  string
		code errs.Code
	}{
		{
			name: "index out of range",
			src:  header + "ZONE NODES=3, ELEMENTS=1\n0 1 0\n0 0 1\n1 2 4\n",
			code: errs.ErrCodeInvalidConnectivity,
		},
		{
			name: "zero index",
			src:  header + "ZONE NODES=3, ELEMENTS=1\n0 1 0\n0 0 1\n0 1 2\n",
			code: errs.ErrCodeInvalidConnectivity,
		},
		{
			name: "short connectivity",
			src:  header + "ZONE NODES=3, ELEMENTS=1\n0 1 0\n0 0 1\n1 2\n",
			code: errs.ErrCodeInvalidConnectivity,
		},
		{
			name: "fractional index",
			src:  header + "ZONE NODES=3, ELEMENTS=1\n0 1 0\n0 0 1\n1 2 2.5\n",
			code: errs.ErrCodeInvalidConnectivity,
		},
		{
			name: "missing coordinates",
			src:  header + "ZONE NODES=3, ELEMENTS=0\n0 1 0\n0 0\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "missing node count",
			src:  header + "ZONE ELEMENTS=0\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "point packing",
			src:  header + "ZONE NODES=0, ELEMENTS=0, DATAPACKING=POINT\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "quad zone",
			src:  header + "ZONE NODES=0, ELEMENTS=0, ZONETYPE=FEQUADRILATERAL\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "overflow",
			src:  header + "ZONE NODES=1, ELEMENTS=0\n1e400 0\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "stray token",
			src:  header + "ZONE NODES=1, ELEMENTS=0\n0 0 garbage\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "node count beyond values",
			src:  header + "ZONE NODES=4611686018427387904, ELEMENTS=0\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "element count beyond values",
			src:  header + "ZONE NODES=0, ELEMENTS=6148914691236517206\n1 2\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "node count larger than coordinates",
			src:  header + "ZONE NODES=5, ELEMENTS=0\n0 1 0\n0 0 1\n",
			code: errs.ErrCodeInvalidFormat,
		},
		{
			name: "single variable",
			src:  "VARIABLES = \"X\"\nZONE NODES=0, ELEMENTS=0\n",
			code: errs.ErrCodeInvalidFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			if !errs.Is(err, tt.code) {
				t.Fatalf("Read: got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()

	if _, err := Import(filepath.Join(dir, "missing.dat")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Fatalf("Import missing: got %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(dir, "out.dat")
	if err := Export(path, twoTriangles(t), Options{Mode: ModeZones}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != zonesOutput {
		t.Errorf("exported file mismatch:\n%s", data)
	}
	doc, err := Import(path)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(doc.Zones) != 2 {
		t.Errorf("got %d zones, want 2", len(doc.Zones))
	}
}

func TestExportMergedSingleZoneLeavesNoFile(t *testing.T) {
	g, err := mesh.Merge(match.DefaultStrategy,
		mesh.ZoneInput{Name: "A", Points: []orb.Point{{0, 0}, {1, 0}, {0, 1}}, Faces: [][]int{{1, 2, 3}}})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.dat")
	if err := Export(path, g, Options{Mode: ModeMerged}); !errs.Is(err, errs.ErrCodePreconditionViolation) {
		t.Fatalf("Export: got %v, want PRECONDITION_VIOLATION", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file exists after failed export: %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{1, "1.0"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{100000, "100000.0"},
		{1e-5, "1e-05"},
		{1e21, "1e+21"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNaNPayloadNotPreserved(t *testing.T) {
	a := math.Float64frombits(0x7ff8000000000001)
	b := math.Float64frombits(0xfff8000000000002)
	if match.Equal(orb.Point{a, 0}, orb.Point{b, 0}) {
		t.Fatal("distinct NaN payloads compare equal before writing")
	}
	sa, sb := formatFloat(a), formatFloat(b)
	if sa != "nan" || sb != "nan" {
		t.Fatalf("formatFloat = %q, %q; want nan", sa, sb)
	}
	ra, err := parseFloat(sa)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := parseFloat(sb)
	if err != nil {
		t.Fatal(err)
	}
	if !match.Equal(orb.Point{ra, 0}, orb.Point{rb, 0}) {
		t.Error("NaNs read back from the same text should match")
	}
}

func TestParseMode(t *testing.T) {
	for _, name := range []string{"zones", "Merged", " merged "} {
		if _, err := ParseMode(name); err != nil {
			t.Errorf("ParseMode(%q): %v", name, err)
		}
	}
	if _, err := ParseMode("single"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ParseMode(single): got %v, want INVALID_INPUT", err)
	}
	var m Mode
	if err := m.UnmarshalText([]byte("merged")); err != nil || m != ModeMerged {
		t.Errorf("UnmarshalText = %v, %v", m, err)
	}
}
