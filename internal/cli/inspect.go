package cli

import (
	"fmt"
	"io"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridmerge/pkg/mesh"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show zones and statistics of the merged grid",
		Long: `Inspect merges the input like merge does and prints one row per zone
together with statistics of the merged grid: boundary edges (one incident
face), over-shared edges (more than two) and nodes shared between zones.

With --interactive the zones are shown in a browser instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := c.config.options(cmd)
			opts.Logger = loggerFromContext(ctx)

			r := c.newRunner()
			zones, err := r.Read(ctx, sources(args, cmd.InOrStdin())...)
			if err != nil {
				return err
			}
			g, err := r.Merge(ctx, zones, opts)
			if err != nil {
				return err
			}

			if interactive {
				_, err := tea.NewProgram(newZoneBrowser(g), tea.WithContext(ctx)).Run()
				return err
			}
			writeInspect(cmd.OutOrStdout(), g)
			return nil
		},
	}

	addPipelineFlags(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse zones interactively")

	return cmd
}

// writeInspect prints the zone table and grid statistics.
func writeInspect(w io.Writer, g *mesh.Grid) {
	fmt.Fprintln(w, StyleTitle.Render("Zones"))
	fmt.Fprintln(w, zoneTable(g.ZoneStats(), 0, len(g.Zones()), -1).Render())
	fmt.Fprintln(w)

	s := g.Stats()
	fmt.Fprintln(w, StyleTitle.Render("Grid"))
	printKeyValue(w, "strategy", g.Strategy().String())
	printKeyValue(w, "nodes", strconv.Itoa(s.Nodes))
	printKeyValue(w, "edges", strconv.Itoa(s.Edges))
	printKeyValue(w, "faces", strconv.Itoa(s.Faces))
	printKeyValue(w, "boundary edges", strconv.Itoa(s.BoundaryEdges))
	printKeyValue(w, "shared nodes", strconv.Itoa(s.SharedNodes))
	printKeyValue(w, "comparisons", strconv.Itoa(g.Comparisons()))
	if s.Nodes > 0 {
		printKeyValue(w, "bounds", fmt.Sprintf("[%g, %g] x [%g, %g]",
			s.Bound.Min.X(), s.Bound.Max.X(), s.Bound.Min.Y(), s.Bound.Max.Y()))
	}
	if s.OverSharedEdges > 0 {
		printKeyValue(w, "over-shared", StyleWarning.Render(strconv.Itoa(s.OverSharedEdges)+" edges with more than two faces"))
	}
}

// zoneTable renders zones[from:to] as a table. The row at cursor, if any,
// is highlighted.
func zoneTable(zones []mesh.ZoneStats, from, to, cursor int) *table.Table {
	rows := make([][]string, 0, to-from)
	for i := from; i < to; i++ {
		z := zones[i]
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{
			marker + strconv.Itoa(i+1),
			z.Name,
			strconv.Itoa(z.Points),
			strconv.Itoa(z.UniqueNodes),
			strconv.Itoa(z.Faces),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("#", "Zone", "Points", "Nodes", "Faces").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if from+row == cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			z := zones[from+row]
			if col == 3 && z.UniqueNodes < z.Points {
				// duplicate points inside the zone
				return base.Foreground(colorYellow)
			}
			return base
		})
}
