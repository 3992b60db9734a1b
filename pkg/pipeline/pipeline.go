// Package pipeline provides the read → merge → write pipeline for gridmerge.
//
// This package is shared by the CLI and the HTTP adapter so both entry
// points decode, merge and encode grids the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Read: Decode Tecplot zones from files or streams
//  2. Merge: Feed every zone, in order, into one [mesh.Grid]
//  3. Write: Encode the grid as Tecplot, GeoJSON, DOT or SVG
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{Strategy: "sorted-two-sided", Mode: "merged"}
//	result, err := runner.Execute(ctx, opts, os.Stdout,
//	    pipeline.Source{Path: "a.dat"}, pipeline.Source{Path: "b.dat"})
//
// [mesh.Grid]: github.com/matzehuels/gridmerge/pkg/mesh.Grid
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
	"github.com/matzehuels/gridmerge/pkg/tecplot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and HTTP
// =============================================================================

// Format constants for output formats.
const (
	FormatTecplot = "tecplot"
	FormatGeoJSON = "geojson"
	FormatDOT     = "dot"
	FormatSVG     = "svg"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatTecplot

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatTecplot: true,
	FormatGeoJSON: true,
	FormatDOT:     true,
	FormatSVG:     true,
}

// ContentTypes maps output formats to HTTP media types.
var ContentTypes = map[string]string{
	FormatTecplot: "text/plain; charset=utf-8",
	FormatGeoJSON: "application/geo+json",
	FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	FormatSVG:     "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for HTTP requests.
type Options struct {
	// Merge options
	Strategy string `json:"strategy,omitempty"` // match strategy name or alias

	// Write options
	Format     string  `json:"format,omitempty"`
	Mode       string  `json:"mode,omitempty"`  // "zones" or "merged"
	Title      string  `json:"title,omitempty"` // Tecplot TITLE
	Scale      float64 `json:"scale,omitempty"` // wireframe inches per grid unit
	Labels     bool    `json:"labels,omitempty"`
	ZoneColors bool    `json:"zone_colors,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	strategy  match.Strategy
	mode      tecplot.Mode
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Grid is the merged grid with IDs assigned.
	Grid *mesh.Grid

	// Stats contains counts and timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Zones       int
	NodeCount   int
	EdgeCount   int
	FaceCount   int
	Comparisons int
	Bytes       int
	ReadTime    time.Duration
	MergeTime   time.Duration
	WriteTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: tecplot, geojson, dot, svg)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.strategy = match.DefaultStrategy
	if o.Strategy != "" {
		s, err := match.ParseStrategy(o.Strategy)
		if err != nil {
			return err
		}
		o.strategy = s
	}
	o.Strategy = o.strategy.String()

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}

	o.mode = tecplot.ModeZones
	if o.Mode != "" {
		m, err := tecplot.ParseMode(o.Mode)
		if err != nil {
			return err
		}
		o.mode = m
	}
	o.Mode = o.mode.String()

	if o.Title == "" {
		o.Title = tecplot.DefaultTitle
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be a finite non-negative number, got %g", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// MatchStrategy returns the parsed strategy. Call ValidateAndSetDefaults
// first.
func (o *Options) MatchStrategy() match.Strategy { return o.strategy }

// OutputMode returns the parsed output mode. Call ValidateAndSetDefaults
// first.
func (o *Options) OutputMode() tecplot.Mode { return o.mode }

// ContentType returns the media type of the configured format.
func (o *Options) ContentType() string {
	if ct, ok := ContentTypes[o.Format]; ok {
		return ct
	}
	return "application/octet-stream"
}
