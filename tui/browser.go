// ABOUTME: Bubble Tea model for browsing a diagram's subgraph tree and toggling collapse state.
// ABOUTME: Left panel lists subgraphs with counts; right viewport previews the rewritten source.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clusterlens/clusterlens/flowchart"
)

// BrowserModel is the top-level Bubble Tea model for the diagram browser.
type BrowserModel struct {
	model     *flowchart.Model
	collapsed map[string]bool
	cursor    int

	preview viewport.Model
	ready   bool
	width   int
	height  int
}

// NewBrowserModel parses the source and starts with every top-level subgraph
// collapsed, matching the dashboard's default view.
func NewBrowserModel(source string) BrowserModel {
	model := flowchart.Parse(source)
	collapsed := make(map[string]bool)
	for _, sg := range model.TopLevel() {
		collapsed[sg.ID] = true
	}
	return BrowserModel{
		model:     model,
		collapsed: collapsed,
	}
}

// Collapsed reports whether the given subgraph id is currently collapsed.
func (m BrowserModel) Collapsed(id string) bool {
	return m.collapsed[id]
}

// Rendered returns the source with the current collapse state applied.
func (m BrowserModel) Rendered() string {
	return m.model.Rewrite(m.collapsed)
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m BrowserModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	previewWidth := m.previewWidth()
	previewHeight := m.height - 4
	if previewHeight < 3 {
		previewHeight = 3
	}
	if !m.ready {
		m.preview = viewport.New(previewWidth, previewHeight)
		m.ready = true
	} else {
		m.preview.Width = previewWidth
		m.preview.Height = previewHeight
	}
	m.preview.SetContent(m.Rendered())
	return m, nil
}

func (m BrowserModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.model.Subgraphs)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", " ":
		if sg := m.selected(); sg != nil {
			if m.collapsed[sg.ID] {
				delete(m.collapsed, sg.ID)
			} else {
				m.collapsed[sg.ID] = true
			}
			if m.ready {
				m.preview.SetContent(m.Rendered())
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m BrowserModel) selected() *flowchart.Subgraph {
	if m.cursor < 0 || m.cursor >= len(m.model.Subgraphs) {
		return nil
	}
	return m.model.Subgraphs[m.cursor]
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.width < 40 || m.height < 8 {
		return fmt.Sprintf("Terminal too small (%dx%d). Minimum: 40x8.", m.width, m.height)
	}

	list := m.listView()
	preview := BorderStyle.Render(m.preview.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)

	status := StatusBarStyle.Width(m.width).Render(
		"↑/↓ select · enter/space toggle · q quit")

	return body + "\n" + status
}

// listView renders the subgraph sidebar: one row per subgraph, indented by
// depth, with a collapse marker and transitive node count.
func (m BrowserModel) listView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("SUBGRAPHS"))
	b.WriteString("\n")

	if len(m.model.Subgraphs) == 0 {
		b.WriteString(CollapsedStyle.Render("  (none)"))
		b.WriteString("\n")
	}

	for i, sg := range m.model.Subgraphs {
		marker := "▼"
		style := ExpandedStyle
		if m.collapsed[sg.ID] {
			marker = "▶"
			style = CollapsedStyle
		}

		indent := strings.Repeat("  ", sg.Depth)
		count := m.model.TransitiveNodeCount(sg.ID)
		row := fmt.Sprintf("%s%s %s %s", indent, marker, sg.Label,
			CountStyle.Render(fmt.Sprintf("(%d)", count)))

		if i == m.cursor {
			b.WriteString(CursorStyle.Render("> " + row))
		} else {
			b.WriteString("  " + style.Render(row))
		}
		b.WriteString("\n")
	}

	width := m.listWidth()
	return BorderStyle.Width(width).Render(b.String())
}

func (m BrowserModel) listWidth() int {
	w := m.width * 40 / 100
	if w < 20 {
		w = 20
	}
	return w
}

func (m BrowserModel) previewWidth() int {
	w := m.width - m.listWidth() - 4
	if w < 10 {
		w = 10
	}
	return w
}

// Run starts the browser on the given diagram source in the alternate screen.
func Run(source string) error {
	p := tea.NewProgram(NewBrowserModel(source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
