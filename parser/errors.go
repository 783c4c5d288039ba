package parser

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrUnmatchedBlock indicates body text that no block rule accepts
	ErrUnmatchedBlock = errors.New("unmatched block")
	// ErrMalformedBlock indicates a block literal whose parts could not be extracted
	ErrMalformedBlock = errors.New("malformed block literal")
)

// excerptLen bounds how much input an error message quotes.
const excerptLen = 40

// UnmatchedBlockError reports remaining body text that matched no rule.
type UnmatchedBlockError struct {
	Offset    int    // byte offset into the body
	Remaining string // unparsed text from Offset on
}

func (e *UnmatchedBlockError) Error() string {
	return fmt.Sprintf("no block rule matches at offset %d: %q", e.Offset, excerpt(e.Remaining))
}

func (e *UnmatchedBlockError) Unwrap() error {
	return ErrUnmatchedBlock
}

// MalformedBlockError reports a block whose pattern matched but whose
// builder rejected the captured parts.
type MalformedBlockError struct {
	Kind    string // block kind of the matching rule
	Offset  int    // byte offset into the body
	Literal string // the matched text
	Reason  string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed %s at offset %d: %s: %q", e.Kind, e.Offset, e.Reason, excerpt(e.Literal))
}

func (e *MalformedBlockError) Unwrap() error {
	return ErrMalformedBlock
}

// excerpt cuts s to at most excerptLen bytes on a rune boundary.
func excerpt(s string) string {
	if len(s) <= excerptLen {
		return s
	}
	cut := excerptLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
