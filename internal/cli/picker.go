package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/topowidth/pkg/graph"
)

// List styles
var (
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	listCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// errSelectionAborted is returned when the user leaves the picker without
// choosing a topology.
var errSelectionAborted = errors.New("selection aborted")

// pickTopology runs the interactive picker and returns the chosen graph.
func pickTopology(graphs []*graph.Graph[string]) (*graph.Graph[string], error) {
	if len(graphs) == 0 {
		return nil, errors.New("no topologies to select from")
	}

	p := tea.NewProgram(newTopologyPicker(graphs))
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker: %w", err)
	}

	final, ok := m.(topologyPicker)
	if !ok || final.selected == nil {
		return nil, errSelectionAborted
	}
	return final.selected, nil
}

// topologyPicker is the bubbletea model for interactive topology selection.
type topologyPicker struct {
	graphs   []*graph.Graph[string]
	cursor   int
	height   int
	offset   int
	selected *graph.Graph[string]
}

// newTopologyPicker creates a picker over the given graphs.
func newTopologyPicker(graphs []*graph.Graph[string]) topologyPicker {
	return topologyPicker{
		graphs: graphs,
		height: 15,
	}
}

func (m topologyPicker) Init() tea.Cmd {
	return nil
}

func (m topologyPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.graphs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.graphs[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m topologyPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Topology"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.graphs) {
		end = len(m.graphs)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		g := m.graphs[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			g.Name(),
			strconv.Itoa(g.NodeCount()),
			strconv.Itoa(g.EdgeCount()),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Topology", "Nodes", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.offset+row == m.cursor {
				return listCursorStyle
			}
			if col >= 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.graphs))))

	return b.String()
}
