package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/k0kubun/pp/v3"
	"gopkg.in/yaml.v3"

	"github.com/gerunddev/marktree/parser"
)

// Output formats accepted by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatPP   = "pp"
)

// DocumentNode is the encodable form of a parser.Document.
type DocumentNode struct {
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	Blocks   []Node            `yaml:"blocks" json:"blocks"`
}

// Node is the encodable form of a block. Type holds the block kind and
// only the fields relevant to that kind are set.
type Node struct {
	Type     string       `yaml:"type" json:"type"`
	Level    int          `yaml:"level,omitempty" json:"level,omitempty"`
	Ordered  bool         `yaml:"ordered,omitempty" json:"ordered,omitempty"`
	Language string       `yaml:"language,omitempty" json:"language,omitempty"`
	URL      string       `yaml:"url,omitempty" json:"url,omitempty"`
	AltText  string       `yaml:"alt,omitempty" json:"alt,omitempty"`
	Caption  string       `yaml:"caption,omitempty" json:"caption,omitempty"`
	Code     string       `yaml:"code,omitempty" json:"code,omitempty"`
	Spans    []SpanNode   `yaml:"spans,omitempty" json:"spans,omitempty"`
	Items    [][]SpanNode `yaml:"items,omitempty" json:"items,omitempty"`
}

// SpanNode is the encodable form of a TextRun (Type "text") or a Link
// (Type "link", with its label runs in Label). Style is set on every text
// run, plain included, and never on links.
type SpanNode struct {
	Type  string        `yaml:"type" json:"type"`
	Style *parser.Style `yaml:"style,omitempty" json:"style,omitempty"`
	Value string        `yaml:"value,omitempty" json:"value,omitempty"`
	URL   string        `yaml:"url,omitempty" json:"url,omitempty"`
	Label []SpanNode    `yaml:"label,omitempty" json:"label,omitempty"`
}

// Tree converts doc into plain tagged structs.
func Tree(doc *parser.Document) DocumentNode {
	out := DocumentNode{
		Metadata: doc.Metadata,
		Blocks:   make([]Node, 0, len(doc.Blocks)),
	}
	for _, block := range doc.Blocks {
		out.Blocks = append(out.Blocks, blockNode(block))
	}
	return out
}

func blockNode(block parser.Block) Node {
	n := Node{Type: block.Kind()}
	switch b := block.(type) {
	case parser.Heading:
		n.Level = b.Level
		n.Spans = spanNodes(b.Body)
	case parser.Paragraph:
		n.Spans = spanNodes(b.Body)
	case parser.Quote:
		n.Spans = spanNodes(b.Body)
	case parser.List:
		n.Ordered = b.Ordered
		for _, item := range b.Items {
			n.Items = append(n.Items, spanNodes(item.Body))
		}
	case parser.Image:
		n.URL = b.URL
		n.AltText = b.AltText
		n.Caption = b.Caption
	case parser.Code:
		n.Language = b.Language
		n.Code = b.Body
	}
	return n
}

func spanNodes(spans []parser.Span) []SpanNode {
	nodes := make([]SpanNode, 0, len(spans))
	for _, span := range spans {
		switch s := span.(type) {
		case parser.TextRun:
			nodes = append(nodes, runNode(s))
		case parser.Link:
			label := make([]SpanNode, 0, len(s.Body))
			for _, r := range s.Body {
				label = append(label, runNode(r))
			}
			nodes = append(nodes, SpanNode{Type: "link", URL: s.URL, Label: label})
		}
	}
	return nodes
}

func runNode(r parser.TextRun) SpanNode {
	style := r.Style
	return SpanNode{Type: "text", Style: &style, Value: r.Value}
}

// Encode writes the tree of doc to w in the given format.
func Encode(w io.Writer, doc *parser.Document, format string) error {
	tree := Tree(doc)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatPP:
		printer := pp.New()
		printer.SetColoringEnabled(false)
		_, err := io.WriteString(w, printer.Sprint(tree)+"\n")
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
