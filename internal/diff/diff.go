package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/marktree/internal/render"
	"github.com/gerunddev/marktree/parser"
)

// Options controls how a diff is rendered
type Options struct {
	// Pretty renders the diff through glamour instead of returning the
	// raw fenced unified diff
	Pretty bool
	// Style is a glamour style name, or "auto" to detect from the terminal
	Style string
	// WordWrap is the glamour wrap width; 0 uses the default of 120
	WordWrap int
}

// Normalize parses source and writes it back in canonical form. It fails
// with render.ErrLossyFormat when the canonical form would lose content.
func Normalize(source string) (string, error) {
	doc, err := parser.Parse(source)
	if err != nil {
		return "", err
	}
	return render.Format(doc)
}

// Generate diffs source against its normalized form. The result is empty
// when the source is already normalized.
func Generate(name, source string, opts Options) (string, error) {
	normalized, err := Normalize(source)
	if err != nil {
		return "", fmt.Errorf("failed to normalize %s: %w", name, err)
	}

	if normalized == source {
		return "", nil
	}

	unified := Unified(name, source, normalized)

	// Wrap in diff code fence for syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	if !opts.Pretty {
		return diffMarkdown, nil
	}

	renderer, err := newRenderer(opts)
	if err != nil {
		// Fallback to plain diff if glamour fails
		return diffMarkdown, nil
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		// Fallback to plain diff if rendering fails
		return diffMarkdown, nil
	}

	return rendered, nil
}

// Unified returns a unified diff from before to after
func Unified(name, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	out := fmt.Sprint(gotextdiff.ToUnified(name, name+" (normalized)", before, edits))
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	wrap := opts.WordWrap
	if wrap == 0 {
		wrap = 120
	}

	style := glamour.WithAutoStyle()
	if opts.Style != "" && opts.Style != "auto" {
		style = glamour.WithStandardStyle(opts.Style)
	}

	return glamour.NewTermRenderer(style, glamour.WithWordWrap(wrap))
}
