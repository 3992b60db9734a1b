package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/gridmerge/pkg/errors"
	"github.com/matzehuels/gridmerge/pkg/mesh"
	"github.com/matzehuels/gridmerge/pkg/mesh/match"
	"github.com/matzehuels/gridmerge/pkg/pipeline"
)

// benchRow is the outcome of merging the input with one strategy.
type benchRow struct {
	strategy    match.Strategy
	elapsed     time.Duration
	comparisons int
	nodes       int
	edges       int
	agrees      bool
}

// benchCommand creates the bench command.
func (c *CLI) benchCommand() *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "bench <file>...",
		Short: "Compare match strategies on the same input",
		Long: `Bench merges the input once per match strategy and reports wall time and
coordinate comparisons. All strategies must produce the same canonical
nodes in the same order; a disagreement is reported as an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := c.newRunner()
			zones, err := r.Read(ctx, sources(args, cmd.InOrStdin())...)
			if err != nil {
				return err
			}
			rows, err := runBench(ctx, r, zones, rounds)
			if err != nil {
				return err
			}
			writeBench(cmd.OutOrStdout(), rows)
			for _, row := range rows {
				if !row.agrees {
					return errs.New(errs.ErrCodeInternal,
						"strategy %s disagrees with %s", row.strategy, rows[0].strategy)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "n", 1, "merges per strategy; the fastest is reported")

	return cmd
}

// runBench merges zones with every strategy and compares the canonical
// nodes against the first strategy's result.
func runBench(ctx context.Context, r *pipeline.Runner, zones []mesh.ZoneInput, rounds int) ([]benchRow, error) {
	rounds = max(rounds, 1)
	var (
		rows []benchRow
		ref  *mesh.Grid
	)
	for _, s := range match.Strategies() {
		spinner := newSpinnerWithContext(ctx, statusOut, fmt.Sprintf("Merging with %s...", s))
		spinner.Start()

		row := benchRow{strategy: s}
		var g *mesh.Grid
		for i := 0; i < rounds; i++ {
			start := time.Now()
			var err error
			g, err = r.Merge(ctx, zones, pipeline.Options{Strategy: s.String()})
			if err != nil {
				spinner.StopWithError(fmt.Sprintf("%s failed", s))
				return nil, err
			}
			if d := time.Since(start); i == 0 || d < row.elapsed {
				row.elapsed = d
			}
		}
		spinner.Stop()

		row.comparisons = g.Comparisons()
		row.nodes = g.NodeCount()
		row.edges = g.EdgeCount()
		if ref == nil {
			ref = g
		}
		row.agrees = sameNodes(ref, g) && ref.EdgeCount() == g.EdgeCount()
		rows = append(rows, row)
	}
	return rows, nil
}

// sameNodes reports whether a and b hold bit-identical canonical nodes in
// the same order.
func sameNodes(a, b *mesh.Grid) bool {
	if a.NodeCount() != b.NodeCount() {
		return false
	}
	for i, n := range a.Nodes() {
		if !match.Equal(n.Point, b.Nodes()[i].Point) {
			return false
		}
	}
	return true
}

func writeBench(w io.Writer, rows []benchRow) {
	data := make([][]string, len(rows))
	for i, r := range rows {
		ok := StyleSuccess.Render(iconSuccess)
		if !r.agrees {
			ok = styleIconError.Render(iconError)
		}
		data[i] = []string{
			r.strategy.String(),
			r.elapsed.Round(time.Microsecond).String(),
			strconv.Itoa(r.comparisons),
			strconv.Itoa(r.nodes),
			strconv.Itoa(r.edges),
			ok,
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Strategy", "Time", "Comparisons", "Nodes", "Edges", "Agrees").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}
