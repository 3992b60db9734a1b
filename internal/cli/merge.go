package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/pipeline"
)

// mergeFlags holds the flags of the merge command that have no config
// file counterpart.
type mergeFlags struct {
	output     string  // output file; stdout when empty
	scale      float64 // wireframe inches per grid unit
	labels     bool    // label wireframe nodes
	zoneColors bool    // colour wireframe edges by zone
}

// addPipelineFlags registers the flags shared by every command that runs
// the merge stage.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "node matching: linear, sorted-one-sided, sorted-two-sided (default)")
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	var flags mergeFlags

	cmd := &cobra.Command{
		Use:   "merge <file>...",
		Short: "Merge Tecplot zones into one grid",
		Long: `Merge reads every zone of every input file, in argument order, and fuses
them into one grid: nodes with identical coordinates become one node and
edges shared between zones become one edge.

The grid is written as Tecplot (per zone or as one merged zone), GeoJSON,
Graphviz DOT or SVG. Use "-" to read a file from stdin.`,
		Example: `  gridmerge merge left.dat right.dat --mode merged -o grid.dat
  gridmerge merge quadrants.dat --format svg -o grid.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.config.options(cmd)
			opts.Scale = flags.scale
			opts.Labels = flags.labels
			opts.ZoneColors = flags.zoneColors
			return c.runMerge(cmd, args, opts, flags.output)
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().String("mode", "", "tecplot/geojson layout: zones (default), merged")
	cmd.Flags().StringP("format", "f", "", "output format: tecplot (default), geojson, dot, svg")
	cmd.Flags().String("title", "", "Tecplot TITLE (default GRID)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&flags.scale, "scale", 1, "wireframe inches per grid unit (dot, svg)")
	cmd.Flags().BoolVar(&flags.labels, "labels", false, "label wireframe nodes (dot, svg)")
	cmd.Flags().BoolVar(&flags.zoneColors, "zone-colors", false, "colour wireframe edges by zone (dot, svg)")

	return cmd
}

// runMerge runs the pipeline and writes its output. A failed run leaves no
// output file behind.
func (c *CLI) runMerge(cmd *cobra.Command, args []string, opts pipeline.Options, output string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	if output != "" {
		if err := errs.ValidateOutputPath(output); err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	var buf bytes.Buffer
	res, err := c.newRunner().Execute(ctx, opts, &buf, sources(args, cmd.InOrStdin())...)
	if err != nil {
		return err
	}
	prog.done("Merged grid", "zones", res.Stats.Zones, "nodes", res.Stats.NodeCount)

	if output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Merged %d zones", res.Stats.Zones)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.FaceCount)
	printFile(output)
	return nil
}
