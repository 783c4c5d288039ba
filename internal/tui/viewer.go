package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/marktree/internal/render"
	"github.com/gerunddev/marktree/internal/styles"
	"github.com/gerunddev/marktree/parser"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(styles.Magenta)).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)
	tableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// ViewerOptions configures the block viewer
type ViewerOptions struct {
	// GlamourStyle is a glamour style name, or "auto"
	GlamourStyle string
	// WordWrap is the preview wrap width; 0 uses 100
	WordWrap int
}

type viewerModel struct {
	name        string
	doc         *parser.Document
	table       table.Model
	viewport    viewport.Model
	renderer    *glamour.TermRenderer
	showPreview bool
	selected    int
	width       int
	height      int
}

// InitViewerModel creates a viewer listing the blocks of doc
func InitViewerModel(name string, doc *parser.Document, opts ViewerOptions) viewerModel {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Kind", Width: 16},
		{Title: "Summary", Width: 60},
	}

	rows := make([]table.Row, 0, len(doc.Blocks))
	for i, block := range doc.Blocks {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			block.Kind(),
			render.Summary(block, 60),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = styles.PreviewStyle

	wrap := opts.WordWrap
	if wrap == 0 {
		wrap = 100
	}
	style := glamour.WithAutoStyle()
	if opts.GlamourStyle != "" && opts.GlamourStyle != "auto" {
		style = glamour.WithStandardStyle(opts.GlamourStyle)
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
	if err != nil {
		// Preview falls back to the raw markdown
		renderer = nil
	}

	return viewerModel{
		name:     name,
		doc:      doc,
		table:    t,
		viewport: vp,
		renderer: renderer,
	}
}

// RunViewer opens an interactive viewer for doc
func RunViewer(name string, doc *parser.Document, opts ViewerOptions) error {
	m := InitViewerModel(name, doc, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = max(msg.Width-4, 10)
		m.viewport.Height = max(msg.Height-8, 3)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

		if m.showPreview {
			switch msg.String() {
			case "enter", "esc":
				m.showPreview = false
				return m, nil
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "enter":
			if len(m.doc.Blocks) == 0 {
				return m, nil
			}
			m.selected = m.table.Cursor()
			m.showPreview = true
			m.viewport.SetContent(m.preview(m.doc.Blocks[m.selected]))
			m.viewport.GotoTop()
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m viewerModel) preview(block parser.Block) string {
	md := render.Block(block) + "\n"
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

func (m viewerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("marktree: " + m.name))
	b.WriteString("\n")

	if len(m.doc.Metadata) > 0 {
		keys := slices.Sorted(maps.Keys(m.doc.Metadata))
		b.WriteString(styles.DimStyle.Render("metadata: " + strings.Join(keys, ", ")))
		b.WriteString("\n\n")
	}

	if m.showPreview {
		block := m.doc.Blocks[m.selected]
		b.WriteString(labelStyle.Render(fmt.Sprintf("Block %d: %s", m.selected+1, block.Kind())))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/esc back • q quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(labelStyle.Render(fmt.Sprintf("Blocks: %d", len(m.doc.Blocks))))
	b.WriteString("\n\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter preview • q quit"))
	b.WriteString("\n")

	return b.String()
}
