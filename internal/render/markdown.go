// Package render turns parsed documents back into text: the source
// markdown dialect, encoded trees, and terminal outlines.
package render

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"strings"

	"github.com/gerunddev/marktree/parser"
)

// ErrLossyFormat is returned by Format when the written markdown would
// parse back to a different document.
var ErrLossyFormat = errors.New("document has no lossless markdown form")

// Italic uses "_" so that an italic run directly followed by a strong run
// does not render as "*a***b**".
var styleMarkers = map[parser.Style]string{
	parser.Plain:     "",
	parser.Italic:    "_",
	parser.Strong:    "**",
	parser.CodeStyle: "`",
}

// Markdown writes doc back in the dialect parser.Parse reads. Blocks are
// separated by blank lines and header values are always double-quoted, so
// parsing the output yields an equal document for any tree the parser can
// produce from well-formed input.
func Markdown(doc *parser.Document) string {
	var b strings.Builder

	if len(doc.Metadata) > 0 {
		b.WriteString("---\n")
		for _, key := range sortedKeys(doc.Metadata) {
			fmt.Fprintf(&b, "%s: \"%s\"\n", key, doc.Metadata[key])
		}
		b.WriteString("---\n")
	} else if len(doc.Blocks) > 0 {
		// A leading break would be read as a header delimiter.
		if _, ok := doc.Blocks[0].(parser.ThematicBreak); ok {
			b.WriteString("---\n---\n")
		}
	}

	for i, block := range doc.Blocks {
		if i > 0 || b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Block(block))
		b.WriteString("\n")
	}

	return b.String()
}

// Format is Markdown guarded by a reparse of its output. Some trees, such
// as an unterminated strong run ending in a literal "*", have no spelling
// in this dialect; for those Format fails instead of dropping text.
func Format(doc *parser.Document) (string, error) {
	out := Markdown(doc)

	again, err := parser.Parse(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLossyFormat, err)
	}
	if !maps.Equal(doc.Metadata, again.Metadata) {
		return "", fmt.Errorf("%w: metadata changes when written", ErrLossyFormat)
	}
	if len(doc.Blocks) != len(again.Blocks) {
		return "", fmt.Errorf("%w: %d blocks written, %d read back",
			ErrLossyFormat, len(doc.Blocks), len(again.Blocks))
	}
	for i, block := range doc.Blocks {
		if !reflect.DeepEqual(block, again.Blocks[i]) {
			return "", fmt.Errorf("%w: block %d (%s) changes when written",
				ErrLossyFormat, i+1, block.Kind())
		}
	}

	return out, nil
}

// Block renders a single block without a trailing newline.
func Block(block parser.Block) string {
	switch bl := block.(type) {
	case parser.Heading:
		return strings.Repeat("#", bl.Level) + " " + Spans(bl.Body)
	case parser.Paragraph:
		return Spans(bl.Body)
	case parser.Quote:
		lines := strings.Split(Spans(bl.Body), "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		return strings.Join(lines, "\n")
	case parser.List:
		lines := make([]string, len(bl.Items))
		for i, item := range bl.Items {
			marker := "-"
			if bl.Ordered {
				marker = fmt.Sprintf("%d.", i+1)
			}
			lines[i] = marker + " " + Spans(item.Body)
		}
		return strings.Join(lines, "\n")
	case parser.Image:
		s := "![" + bl.AltText + "](" + bl.URL + ")"
		if bl.Caption != "" {
			s += "(" + bl.Caption + ")"
		}
		return s
	case parser.Code:
		if bl.Body == "" {
			return "```" + bl.Language + "\n```"
		}
		return "```" + bl.Language + "\n" + bl.Body + "\n```"
	case parser.ThematicBreak:
		return "---"
	}
	return ""
}

// Spans renders an inline span sequence.
func Spans(spans []parser.Span) string {
	var b strings.Builder
	for _, span := range spans {
		switch s := span.(type) {
		case parser.TextRun:
			writeRun(&b, s)
		case parser.Link:
			b.WriteString("[")
			b.WriteString(Runs(s.Body))
			b.WriteString("](")
			b.WriteString(s.URL)
			b.WriteString(")")
		}
	}
	return b.String()
}

// Runs renders styled runs with their markers.
func Runs(runs []parser.TextRun) string {
	var b strings.Builder
	for _, run := range runs {
		writeRun(&b, run)
	}
	return b.String()
}

func writeRun(b *strings.Builder, run parser.TextRun) {
	marker := styleMarkers[run.Style]
	b.WriteString(marker)
	b.WriteString(run.Value)
	b.WriteString(marker)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
