package parser

import "fmt"

// Style is the inline style of a TextRun.
type Style int

const (
	Plain Style = iota
	Italic
	Strong
	CodeStyle
)

var styleNames = [...]string{
	Plain:     "plain",
	Italic:    "italic",
	Strong:    "strong",
	CodeStyle: "code",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styleNames[s]
}

// MarshalText encodes the style by name.
func (s Style) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(styleNames) {
		return nil, fmt.Errorf("unknown style %d", int(s))
	}
	return []byte(styleNames[s]), nil
}

// UnmarshalText decodes a style name produced by MarshalText.
func (s *Style) UnmarshalText(text []byte) error {
	for i, name := range styleNames {
		if name == string(text) {
			*s = Style(i)
			return nil
		}
	}
	return fmt.Errorf("unknown style %q", string(text))
}
