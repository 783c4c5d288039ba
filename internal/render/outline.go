package render

import (
	"fmt"
	"strings"

	"github.com/gerunddev/marktree/internal/styles"
	"github.com/gerunddev/marktree/parser"
)

const summaryWidth = 60

// Outline renders one line per block: a kind badge followed by a short
// summary. Metadata keys, when present, are listed first.
func Outline(doc *parser.Document) string {
	var b strings.Builder

	if len(doc.Metadata) > 0 {
		b.WriteString(styles.TitleStyle.Render("Metadata"))
		b.WriteString("\n")
		for _, key := range sortedKeys(doc.Metadata) {
			fmt.Fprintf(&b, "  %s %s\n",
				styles.HighlightStyle.Render(key+":"),
				Truncate(doc.Metadata[key], summaryWidth))
		}
		b.WriteString("\n")
	}

	if len(doc.Blocks) == 0 {
		b.WriteString(styles.DimStyle.Render("(no blocks)"))
		b.WriteString("\n")
		return b.String()
	}

	for i, block := range doc.Blocks {
		fmt.Fprintf(&b, "%s %s %s\n",
			styles.DimStyle.Render(fmt.Sprintf("%3d", i+1)),
			styles.Badge(block.Kind()),
			Summary(block, summaryWidth))
	}

	return b.String()
}

// Summary describes a block in at most width runes of plain text.
func Summary(block parser.Block, width int) string {
	var s string
	switch bl := block.(type) {
	case parser.Heading:
		s = fmt.Sprintf("h%d %s", bl.Level, parser.PlainText(bl.Body))
	case parser.Paragraph:
		s = parser.PlainText(bl.Body)
	case parser.Quote:
		s = strings.ReplaceAll(parser.PlainText(bl.Body), "\n", " / ")
	case parser.List:
		kind := "bulleted"
		if bl.Ordered {
			kind = "ordered"
		}
		s = fmt.Sprintf("%d %s items", len(bl.Items), kind)
		if len(bl.Items) == 1 {
			s = fmt.Sprintf("1 %s item", kind)
		}
	case parser.Image:
		s = bl.URL
		if bl.AltText != "" {
			s = bl.AltText + " (" + bl.URL + ")"
		}
	case parser.Code:
		lang := bl.Language
		if lang == "" {
			lang = "text"
		}
		lines := 0
		if bl.Body != "" {
			lines = strings.Count(bl.Body, "\n") + 1
		}
		s = fmt.Sprintf("%s, %d lines", lang, lines)
	case parser.ThematicBreak:
		s = "---"
	}
	return Truncate(s, width)
}

// Truncate shortens s to width runes, ending with "..." when cut.
func Truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
