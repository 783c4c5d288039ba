package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/marktree/parser"
)

func testDoc(t *testing.T) *parser.Document {
	t.Helper()
	doc, err := parser.Parse("---\ntitle: T\n---\n# Heading\nSome **bold** text\n```go\nfmt.Println()\n```")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewerListsBlocks(t *testing.T) {
	m := InitViewerModel("note.md", testDoc(t), ViewerOptions{GlamourStyle: "notty"})
	view := m.View()

	for _, want := range []string{"note.md", "metadata: title", "Blocks: 3", "heading", "paragraph", "code"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestViewerTogglePreview(t *testing.T) {
	var model tea.Model = InitViewerModel("note.md", testDoc(t), ViewerOptions{GlamourStyle: "notty"})

	model, _ = model.Update(key("down"))
	model, _ = model.Update(key("enter"))

	m := model.(viewerModel)
	if !m.showPreview {
		t.Fatal("Expected enter to open preview")
	}
	if m.selected != 1 {
		t.Errorf("Expected second block selected, got %d", m.selected)
	}
	if view := m.View(); !strings.Contains(view, "Block 2: paragraph") || !strings.Contains(view, "bold") {
		t.Errorf("Unexpected preview view:\n%s", view)
	}

	model, _ = model.Update(key("enter"))
	if model.(viewerModel).showPreview {
		t.Error("Expected enter to close preview")
	}
}

func TestViewerQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m := InitViewerModel("note.md", testDoc(t), ViewerOptions{})
			msg := key(k)
			if k == "ctrl+c" {
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("Expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("Expected tea.QuitMsg")
			}
		})
	}
}

func TestViewerEmptyDocument(t *testing.T) {
	var model tea.Model = InitViewerModel("empty.md", &parser.Document{}, ViewerOptions{})
	model, _ = model.Update(key("enter"))
	if model.(viewerModel).showPreview {
		t.Error("Preview should not open without blocks")
	}
	if !strings.Contains(model.View(), "Blocks: 0") {
		t.Errorf("Unexpected view:\n%s", model.View())
	}
}
