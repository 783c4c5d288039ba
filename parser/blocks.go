package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// blockRule pairs a pattern anchored at the start of the remaining body
// with the builder for the block it recognises.
type blockRule struct {
	kind    string
	pattern *regexp.Regexp
	// build receives the whole match followed by its groups; groups that
	// did not participate are empty.
	build func(m []string) (Block, string)
}

// blockRules are tried in order and the first match wins. The order is the
// tie-break between grammars: a "---" line is never a list item because
// lists need "- ", and a paragraph takes whatever nothing else claims.
var blockRules = []blockRule{
	{
		kind:    "heading",
		pattern: regexp.MustCompile(`\A(#{1,6}) ([^\n]*)`),
		build:   buildHeading,
	},
	{
		kind:    "quote",
		pattern: regexp.MustCompile(`\A>[^\n]*(?:\n>[^\n]*)*`),
		build:   buildQuote,
	},
	{
		kind:    "list",
		pattern: regexp.MustCompile(`\A(?:-|[0-9]+\.) [^\n]*(?:\n(?:-|[0-9]+\.) [^\n]*)*`),
		build:   buildList,
	},
	{
		kind:    "image",
		pattern: regexp.MustCompile(`\A!\[([^\]\n]*)\]\(([^)\n]*)\)(?:[ \t]*\(([^)\n]*)\))?[ \t]*(?:\n|\z)`),
		build:   buildImage,
	},
	{
		kind:    "code",
		pattern: regexp.MustCompile("\\A```([^\\n]*)\\n((?s:.*?\\n)?)```[ \\t]*(?:\\n|\\z)"),
		build:   buildCode,
	},
	{
		kind:    "thematic_break",
		pattern: regexp.MustCompile(`\A-{3,}[ \t]*(?:\n|\z)`),
		build: func([]string) (Block, string) {
			return ThematicBreak{}, ""
		},
	},
	{
		kind:    "paragraph",
		pattern: regexp.MustCompile(`\A[^\n]+`),
		build: func(m []string) (Block, string) {
			return Paragraph{Body: ParseTextBody(m[0])}, ""
		},
	},
}

// ParseBlocks segments a document body into blocks.
//
// Leading whitespace is skipped before every block, so blank lines only
// separate blocks. A body that is empty or all whitespace yields no blocks.
// The returned error is an *UnmatchedBlockError or a *MalformedBlockError.
func ParseBlocks(body string) ([]Block, error) {
	var blocks []Block
	pos := skipSpace(body, 0)
	for pos < len(body) {
		block, n, err := matchBlock(body[pos:], pos)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
		pos = skipSpace(body, pos+n)
	}
	return blocks, nil
}

// matchBlock applies the first matching rule to rest and reports how many
// bytes the block consumed.
func matchBlock(rest string, offset int) (Block, int, error) {
	for _, rule := range blockRules {
		loc := rule.pattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		if loc[1] == 0 {
			return nil, 0, &MalformedBlockError{Kind: rule.kind, Offset: offset, Reason: "empty match"}
		}

		m := make([]string, len(loc)/2)
		for i := range m {
			if loc[2*i] >= 0 {
				m[i] = rest[loc[2*i]:loc[2*i+1]]
			}
		}

		block, reason := rule.build(m)
		if reason != "" {
			return nil, 0, &MalformedBlockError{
				Kind:    rule.kind,
				Offset:  offset,
				Literal: strings.TrimRight(m[0], "\n"),
				Reason:  reason,
			}
		}
		return block, loc[1], nil
	}
	return nil, 0, &UnmatchedBlockError{Offset: offset, Remaining: rest}
}

func skipSpace(s string, pos int) int {
	return len(s) - len(strings.TrimLeftFunc(s[pos:], unicode.IsSpace))
}

func buildHeading(m []string) (Block, string) {
	return Heading{Level: len(m[1]), Body: ParseTextBody(m[2])}, ""
}

func buildQuote(m []string) (Block, string) {
	lines := strings.Split(m[0], "\n")
	for i, line := range lines {
		line = strings.TrimPrefix(line, ">")
		lines[i] = strings.TrimPrefix(line, " ")
	}
	return Quote{Body: ParseTextBody(strings.Join(lines, "\n"))}, ""
}

func buildList(m []string) (Block, string) {
	lines := strings.Split(m[0], "\n")
	list := List{Ordered: true, Items: make([]ListItem, 0, len(lines))}
	for _, line := range lines {
		marker, text, _ := strings.Cut(line, " ")
		if marker == "-" {
			list.Ordered = false
		}
		list.Items = append(list.Items, ListItem{Body: ParseTextBody(text)})
	}
	return list, ""
}

func buildImage(m []string) (Block, string) {
	url := strings.TrimSpace(m[2])
	if url == "" {
		return nil, "missing image url"
	}
	return Image{URL: url, AltText: m[1], Caption: m[3]}, ""
}

func buildCode(m []string) (Block, string) {
	return Code{
		Language: strings.TrimSpace(m[1]),
		Body:     strings.TrimSuffix(m[2], "\n"),
	}, ""
}
