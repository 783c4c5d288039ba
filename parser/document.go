// Package parser turns documents written in a small markdown dialect into a
// tree of typed blocks and inline spans.
//
// A document is an optional metadata header delimited by "---" lines,
// followed by a body of blocks: headings, quotes, lists, images, fenced
// code, thematic breaks and single-line paragraphs. Styled text inside
// blocks is split into runs of plain, italic, strong and code text, plus
// links.
//
// All functions in this package are pure and safe for concurrent use.
package parser

// Document is the result of parsing a complete input.
type Document struct {
	Metadata map[string]string
	Blocks   []Block
}

// Block is a top-level structural unit of a document.
//
// The set of implementations is closed: Heading, Paragraph, Quote, List,
// Image, Code and ThematicBreak.
type Block interface {
	// Kind returns the lower-case name of the block type.
	Kind() string
	block()
}

// Heading is a "#" to "######" heading.
type Heading struct {
	Level int
	Body  []Span
}

// Paragraph is a single line of styled text.
type Paragraph struct {
	Body []Span
}

// Quote is a run of consecutive ">" lines. Lines are joined with "\n".
type Quote struct {
	Body []Span
}

// List is a run of consecutive "- " or "N. " item lines.
type List struct {
	Ordered bool
	Items   []ListItem
}

// ListItem is one line of a List.
type ListItem struct {
	Body []Span
}

// Image is a standalone "![alt](url)(caption)" line.
type Image struct {
	URL     string
	AltText string
	Caption string // empty when absent
}

// Code is a fenced code block. Body is kept verbatim.
type Code struct {
	Language string // empty when the fence carries no tag
	Body     string
}

// ThematicBreak is a line of three or more hyphens.
type ThematicBreak struct{}

func (Heading) Kind() string       { return "heading" }
func (Paragraph) Kind() string     { return "paragraph" }
func (Quote) Kind() string         { return "quote" }
func (List) Kind() string          { return "list" }
func (Image) Kind() string         { return "image" }
func (Code) Kind() string          { return "code" }
func (ThematicBreak) Kind() string { return "thematic_break" }

func (Heading) block()       {}
func (Paragraph) block()     {}
func (Quote) block()         {}
func (List) block()          {}
func (Image) block()         {}
func (Code) block()          {}
func (ThematicBreak) block() {}

// Span is an inline unit of a block body: a TextRun or a Link.
type Span interface {
	span()
}

// TextRun is a maximal run of text sharing one Style.
type TextRun struct {
	Style Style
	Value string
}

// Link is a "[label](url)" hyperlink. Links never nest.
type Link struct {
	Body []TextRun
	URL  string
}

func (TextRun) span() {}
func (Link) span()    {}

// Segment is an element of the sequence returned by ExtractLinks: either
// RawText still waiting to be tokenized or a finished Link.
type Segment interface {
	segment()
}

// RawText is link-free text that has not been tokenized yet.
type RawText string

func (RawText) segment() {}
func (Link) segment()    {}

// PlainText concatenates the values of all runs in spans, including link
// labels. Style markers are not reproduced.
func PlainText(spans []Span) string {
	var n int
	for _, s := range spans {
		switch s := s.(type) {
		case TextRun:
			n += len(s.Value)
		case Link:
			for _, r := range s.Body {
				n += len(r.Value)
			}
		}
	}

	buf := make([]byte, 0, n)
	for _, s := range spans {
		switch s := s.(type) {
		case TextRun:
			buf = append(buf, s.Value...)
		case Link:
			for _, r := range s.Body {
				buf = append(buf, r.Value...)
			}
		}
	}
	return string(buf)
}
