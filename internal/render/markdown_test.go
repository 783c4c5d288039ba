package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/marktree/parser"
)

const sampleSource = "---\n" +
	"title: Hello\n" +
	"tags: 'a, b'\n" +
	"---\n" +
	"# Hello *world*\n" +
	"Some **bold** and `code` with [a *link*](http://x).\n" +
	"- one\n" +
	"- two\n" +
	"\n" +
	"1. first\n" +
	"> quoted\n" +
	"> more\n" +
	"![alt](img.png)(A caption)\n" +
	"```go\n" +
	"fmt.Println()\n" +
	"```\n" +
	"---\n"

func mustParse(t *testing.T, src string) *parser.Document {
	t.Helper()
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	return doc
}

func TestMarkdown(t *testing.T) {
	doc := mustParse(t, sampleSource)

	expected := "---\n" +
		"tags: \"a, b\"\n" +
		"title: \"Hello\"\n" +
		"---\n" +
		"\n" +
		"# Hello _world_\n" +
		"\n" +
		"Some **bold** and `code` with [a _link_](http://x).\n" +
		"\n" +
		"- one\n" +
		"- two\n" +
		"\n" +
		"1. first\n" +
		"\n" +
		"> quoted\n" +
		"> more\n" +
		"\n" +
		"![alt](img.png)(A caption)\n" +
		"\n" +
		"```go\n" +
		"fmt.Println()\n" +
		"```\n" +
		"\n" +
		"---\n"

	assert.Equal(t, expected, Markdown(doc))
}

func TestMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "", Markdown(&parser.Document{}))
}

func TestMarkdownRoundTrip(t *testing.T) {
	sources := []string{
		sampleSource,
		"",
		"just a line",
		"---\n\nstarts with a break",
		"---\nkey: value\n---\n---\nbreak after header",
		"*a*__b__**c**`d`",
		"_x_**y**",
		"**y***x*",
		"> \n> indented\n>\n> last",
		"```\n```",
		"```sh\n\nls\n\n```",
		"3. c\n1. a\n2. b",
		"- [link](u) tail\n- **[bold link](v)**",
		"![](a.png)",
		"####### not a heading",
		"----   ",
		"a *b",
		"plain [*x*](y) *z*",
		"---\nquote: \"keeps 'inner' quotes\"\nempty:\n---\nbody",
		// unterminated runs that still have a spelling
		"**open",
		"`open",
		"- **open",
		"[**open](u)",
		"x **open*",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			doc := mustParse(t, src)
			out := Markdown(doc)

			again, err := parser.Parse(out)
			require.NoError(t, err, "re-parse of:\n%s", out)
			assert.Equal(t, doc.Metadata, again.Metadata)
			assert.Equal(t, doc.Blocks, again.Blocks)

			// A second pass is a fixed point.
			assert.Equal(t, out, Markdown(again))

			formatted, err := Format(doc)
			require.NoError(t, err)
			assert.Equal(t, out, formatted)
		})
	}
}

// An unterminated strong run ending in "*" reads back without the "*".
func TestFormatRejectsLossyOutput(t *testing.T) {
	sources := []string{
		"**a*",
		"- **a*",
		"[**a*](u)",
		"# ok\n\n**a*",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			doc := mustParse(t, src)

			again, err := parser.Parse(Markdown(doc))
			require.NoError(t, err)
			assert.NotEqual(t, doc.Blocks, again.Blocks)

			_, err = Format(doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLossyFormat)
		})
	}
}

func TestFormatNamesChangedBlock(t *testing.T) {
	doc := mustParse(t, "# ok\n- **a*")

	_, err := Format(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block 2 (list)")
}

func TestMarkdownLeadingBreakWithoutMetadata(t *testing.T) {
	doc := &parser.Document{Blocks: []parser.Block{parser.ThematicBreak{}}}

	out := Markdown(doc)
	assert.True(t, strings.HasPrefix(out, "---\n---\n"), "got %q", out)

	again := mustParse(t, out)
	assert.Empty(t, again.Metadata)
	assert.Equal(t, doc.Blocks, again.Blocks)
}

func TestRuns(t *testing.T) {
	runs := []parser.TextRun{
		{Style: parser.Plain, Value: "a "},
		{Style: parser.Italic, Value: "b"},
		{Style: parser.Strong, Value: "c"},
		{Style: parser.CodeStyle, Value: "d*e"},
	}
	out := Runs(runs)

	assert.Equal(t, "a _b_**c**`d*e`", out)
	assert.Equal(t, runs, parser.Tokenize(out))
}

func TestSpans(t *testing.T) {
	spans := []parser.Span{
		parser.TextRun{Style: parser.Plain, Value: "see "},
		parser.Link{URL: "http://x", Body: []parser.TextRun{{Style: parser.Strong, Value: "here"}}},
	}
	out := Spans(spans)

	assert.Equal(t, "see [**here**](http://x)", out)
	assert.Equal(t, spans, parser.ParseTextBody(out))
}

func TestBlock(t *testing.T) {
	tests := []struct {
		name     string
		block    parser.Block
		expected string
	}{
		{
			name:     "heading",
			block:    parser.Heading{Level: 3, Body: []parser.Span{parser.TextRun{Value: "Three"}}},
			expected: "### Three",
		},
		{
			name: "ordered list is renumbered",
			block: parser.List{Ordered: true, Items: []parser.ListItem{
				{Body: []parser.Span{parser.TextRun{Value: "a"}}},
				{Body: []parser.Span{parser.TextRun{Value: "b"}}},
			}},
			expected: "1. a\n2. b",
		},
		{
			name:     "image without caption",
			block:    parser.Image{URL: "a.png", AltText: "A"},
			expected: "![A](a.png)",
		},
		{
			name:     "empty code",
			block:    parser.Code{Language: "go"},
			expected: "```go\n```",
		},
		{
			name:     "break",
			block:    parser.ThematicBreak{},
			expected: "---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Block(tt.block))
		})
	}
}
