package pipeline

import (
	"math"
	"testing"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
	"github.com/matzehuels/gridmerge/pkg/tecplot"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"tecplot", false},
		{"geojson", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Format != FormatTecplot {
		t.Errorf("Format = %q, want %q", opts.Format, FormatTecplot)
	}
	if opts.MatchStrategy() != match.DefaultStrategy || opts.Strategy != "sorted-two-sided" {
		t.Errorf("Strategy = %q (%v)", opts.Strategy, opts.MatchStrategy())
	}
	if opts.OutputMode() != tecplot.ModeZones || opts.Mode != "zones" {
		t.Errorf("Mode = %q (%v)", opts.Mode, opts.OutputMode())
	}
	if opts.Title != "GRID" {
		t.Errorf("Title = %q", opts.Title)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateAliases(t *testing.T) {
	opts := Options{Strategy: "dichotomy_1_sided", Mode: "MERGED"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MatchStrategy() != match.SortedOneSided || opts.Strategy != "sorted-one-sided" {
		t.Errorf("Strategy = %q", opts.Strategy)
	}
	if opts.OutputMode() != tecplot.ModeMerged {
		t.Errorf("Mode = %v", opts.OutputMode())
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"strategy", Options{Strategy: "quadtree"}, errs.ErrCodeUnknownMergeStrategy},
		{"format", Options{Format: "pdf"}, errs.ErrCodeInvalidInput},
		{"mode", Options{Mode: "single"}, errs.ErrCodeInvalidInput},
		{"scale", Options{Scale: -1}, errs.ErrCodeInvalidInput},
		{"scale nan", Options{Scale: math.NaN()}, errs.ErrCodeInvalidInput},
		{"scale inf", Options{Scale: math.Inf(1)}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("got %v, want %s", err, tt.code)
			}
		})
	}
}

func TestContentType(t *testing.T) {
	for format := range ValidFormats {
		opts := Options{Format: format}
		if opts.ContentType() == "application/octet-stream" {
			t.Errorf("format %s has no content type", format)
		}
	}
}
