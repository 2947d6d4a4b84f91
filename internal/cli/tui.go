package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gincla/nightsky/pkg/viewer"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorFaint)

// NodeListModel is the bubbletea model behind "nightsky pick": a scrolling
// table of the settled stars. Selected is set when the user presses enter.
type NodeListModel struct {
	Nodes    []viewer.NodeState
	Cursor   int
	Selected *viewer.NodeState
	Height   int // visible rows
	Offset   int // first visible row
}

func NewNodeListModel(nodes []viewer.NodeState) NodeListModel {
	return NodeListModel{Nodes: nodes, Height: 15}
}

func (m NodeListModel) Init() tea.Cmd { return nil }

// move shifts the cursor by delta, clamped to the list, and scrolls the
// window just enough to keep it visible.
func (m *NodeListModel) move(delta int) {
	if len(m.Nodes) == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.Nodes)-1)
	switch {
	case m.Cursor < m.Offset:
		m.Offset = m.Cursor
	case m.Cursor >= m.Offset+m.Height:
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.move(0)
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.Nodes))
		case "end", "G":
			m.move(len(m.Nodes))
		case "enter":
			if m.Cursor < len(m.Nodes) {
				n := m.Nodes[m.Cursor]
				m.Selected = &n
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func starRow(n viewer.NodeState, current bool) []string {
	marker, cats := "", "-"
	if current {
		marker = "*"
	}
	if len(n.Categories) > 0 {
		cats = strings.Join(n.Categories, ", ")
	}
	return []string{marker, n.ID, fmt.Sprintf("%.1f", n.X), fmt.Sprintf("%.1f", n.Y), fmt.Sprintf("%g", n.Radius), cats}
}

func (m NodeListModel) View() string {
	visible := m.Nodes[m.Offset:min(m.Offset+m.Height, len(m.Nodes))]
	rows := make([][]string, len(visible))
	for i, n := range visible {
		rows[i] = starRow(n, m.Offset+i == m.Cursor)
	}

	header := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	current := lipgloss.NewStyle().Foreground(colorStar).Bold(true)
	coords := lipgloss.NewStyle().Foreground(colorFaint)
	plain := lipgloss.NewStyle().Foreground(colorText)
	stars := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(coords).
		Headers("", "Star", "X", "Y", "Radius", "Categories").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case m.Offset+row == m.Cursor:
				return current
			case col >= 2:
				return coords
			}
			return plain
		})

	return lipgloss.JoinVertical(lipgloss.Left,
		StyleTitle.Render("Pick a star"),
		listDimStyle.Render("j/k move  g/G ends  enter select  q quit"),
		"",
		stars.Render(),
		listDimStyle.Render(fmt.Sprintf("%d of %d", min(m.Cursor+1, len(m.Nodes)), len(m.Nodes))),
	)
}
