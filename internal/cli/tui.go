package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/planstack/floorplan/pkg/layout"
	"github.com/planstack/floorplan/pkg/validate"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ObjectListModel - Interactive object browser
// =============================================================================

// ObjectListModel is the bubbletea model for browsing a layout's objects.
// Rows flagged by the audit report are highlighted.
type ObjectListModel struct {
	Layout  *layout.Layout
	Flagged map[string][]validate.Issue
	Cursor  int
	Height  int
	Offset  int
}

// NewObjectListModel creates a new object browser model.
func NewObjectListModel(l *layout.Layout, report validate.Report) ObjectListModel {
	flagged := make(map[string][]validate.Issue)
	for _, issue := range report.Issues {
		if issue.ObjectID != "" {
			flagged[issue.ObjectID] = append(flagged[issue.ObjectID], issue)
		}
	}
	return ObjectListModel{
		Layout:  l,
		Flagged: flagged,
		Cursor:  0,
		Height:  15,
		Offset:  0,
	}
}

func (m ObjectListModel) Init() tea.Cmd {
	return nil
}

func (m ObjectListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.Objects)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ObjectListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Layout.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Layout.Objects) {
		end = len(m.Layout.Objects)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := &m.Layout.Objects[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		status := "✓"
		if issues, bad := m.Flagged[o.ID]; bad {
			status = fmt.Sprintf("%d!", len(issues))
		}

		pos := fmt.Sprintf("%g, %g", o.X, o.Y)
		size := fmt.Sprintf("%g x %g", o.Width, o.Height)
		rot := fmt.Sprintf("%g°", o.Rotation)
		rows = append(rows, []string{cursor, o.ID, o.Type, pos, size, rot, status})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Position", "Size", "Rotation", "OK").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Layout.Objects) {
				return lipgloss.NewStyle()
			}
			o := &m.Layout.Objects[actualIdx]
			_, bad := m.Flagged[o.ID]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if bad {
				base = base.Foreground(colorRed)
			}
			if isCurrent {
				return base.Bold(true)
			}
			if !bad {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layout.Objects))))

	return b.String()
}
