package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridmerge/pkg/mesh"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// detailFaces caps the faces listed in the detail view.
const detailFaces = 8

// =============================================================================
// ZoneBrowserModel - Interactive zone inspection
// =============================================================================

// ZoneBrowserModel is the bubbletea model behind inspect --interactive.
// The list view shows one row per zone; enter opens a detail view of the
// selected zone's faces in global node numbering.
type ZoneBrowserModel struct {
	Grid   *mesh.Grid
	Zones  []mesh.ZoneStats
	Cursor int
	Height int
	Offset int
	Detail bool
}

// newZoneBrowser creates a browser over the zones of g.
func newZoneBrowser(g *mesh.Grid) ZoneBrowserModel {
	return ZoneBrowserModel{Grid: g, Zones: g.ZoneStats(), Height: 15}
}

func (m ZoneBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ZoneBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Zones)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Zones) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m ZoneBrowserModel) View() string {
	if m.Detail {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Zones"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Zones) == 0 {
		b.WriteString(listDimStyle.Render("  no zones"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Zones))
	b.WriteString(zoneTable(m.Zones, m.Offset, end, m.Cursor).Render())
	b.WriteString("\n\n")

	s := m.Grid.Stats()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes · %d edges · %d boundary",
		m.Cursor+1, len(m.Zones), s.Nodes, s.Edges, s.BoundaryEdges)))
	return b.String()
}

func (m ZoneBrowserModel) detailView() string {
	z := m.Grid.Zone(mesh.ZoneID(m.Cursor))
	zs := m.Zones[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Zone %d: %s", m.Cursor+1, zs.Name)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s points  %s nodes  %s faces\n\n",
		StyleNumber.Render(fmt.Sprint(zs.Points)),
		StyleNumber.Render(fmt.Sprint(zs.UniqueNodes)),
		StyleNumber.Render(fmt.Sprint(zs.Faces)))

	for i, fid := range z.Faces {
		if i == detailFaces {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(z.Faces)-detailFaces)))
			b.WriteString("\n")
			break
		}
		f := m.Grid.Face(fid)
		shared := 0
		for _, e := range f.Edges {
			if len(m.Grid.Edge(e).Faces) > 1 {
				shared++
			}
		}
		fmt.Fprintf(&b, "  face %-5d nodes %d %d %d  %s\n",
			int(fid)+1, int(f.Nodes[0])+1, int(f.Nodes[1])+1, int(f.Nodes[2])+1,
			listDimStyle.Render(fmt.Sprintf("%d/3 edges shared", shared)))
	}
	return b.String()
}
