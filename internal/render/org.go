package render

import (
	"fmt"
	"strings"

	"github.com/gerunddev/marktree/parser"
)

var orgMarkers = map[parser.Style]string{
	parser.Plain:     "",
	parser.Italic:    "/",
	parser.Strong:    "*",
	parser.CodeStyle: "~",
}

// Org exports doc as an org-mode document. Metadata becomes "#+KEY:"
// keyword lines, headings become star headlines and quote and code blocks
// use #+BEGIN_QUOTE and #+BEGIN_SRC.
//
// The export is one way; org markup is not read back.
func Org(doc *parser.Document) string {
	var b strings.Builder

	for _, key := range sortedKeys(doc.Metadata) {
		fmt.Fprintf(&b, "#+%s: %s\n", strings.ToUpper(key), doc.Metadata[key])
	}
	if len(doc.Metadata) > 0 && len(doc.Blocks) > 0 {
		b.WriteString("\n")
	}

	for i, block := range doc.Blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(orgBlock(block))
		b.WriteString("\n")
	}

	return b.String()
}

func orgBlock(block parser.Block) string {
	switch bl := block.(type) {
	case parser.Heading:
		// # Header → * Header
		return strings.Repeat("*", bl.Level) + " " + orgSpans(bl.Body)
	case parser.Paragraph:
		return orgSpans(bl.Body)
	case parser.Quote:
		return "#+BEGIN_QUOTE\n" + orgSpans(bl.Body) + "\n#+END_QUOTE"
	case parser.List:
		lines := make([]string, len(bl.Items))
		for i, item := range bl.Items {
			marker := "-"
			if bl.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			lines[i] = marker + " " + orgSpans(item.Body)
		}
		return strings.Join(lines, "\n")
	case parser.Image:
		link := "[[" + bl.URL + "]]"
		if bl.AltText != "" {
			link = "[[" + bl.URL + "][" + bl.AltText + "]]"
		}
		if bl.Caption != "" {
			return "#+CAPTION: " + bl.Caption + "\n" + link
		}
		return link
	case parser.Code:
		begin := "#+BEGIN_SRC"
		if bl.Language != "" {
			begin += " " + bl.Language
		}
		if bl.Body == "" {
			return begin + "\n#+END_SRC"
		}
		return begin + "\n" + bl.Body + "\n#+END_SRC"
	case parser.ThematicBreak:
		return "-----"
	}
	return ""
}

func orgSpans(spans []parser.Span) string {
	var b strings.Builder
	for _, span := range spans {
		switch s := span.(type) {
		case parser.TextRun:
			writeOrgRun(&b, s)
		case parser.Link:
			// [label](url) → [[url][label]]
			b.WriteString("[[")
			b.WriteString(s.URL)
			b.WriteString("]")
			if len(s.Body) > 0 {
				b.WriteString("[")
				for _, r := range s.Body {
					writeOrgRun(&b, r)
				}
				b.WriteString("]")
			}
			b.WriteString("]")
		}
	}
	return b.String()
}

func writeOrgRun(b *strings.Builder, run parser.TextRun) {
	marker := orgMarkers[run.Style]
	b.WriteString(marker)
	b.WriteString(run.Value)
	b.WriteString(marker)
}
