package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt(t *testing.T) {
	short := "short text"
	assert.Equal(t, short, excerpt(short))

	ascii := strings.Repeat("a", excerptLen+5)
	assert.Equal(t, strings.Repeat("a", excerptLen)+"...", excerpt(ascii))

	// "é" is two bytes; the cut would land in the middle of one
	multibyte := strings.Repeat("a", excerptLen-1) + strings.Repeat("é", 4)
	got := excerpt(multibyte)
	assert.True(t, utf8.ValidString(got), "excerpt split a rune: %q", got)
	assert.Equal(t, strings.Repeat("a", excerptLen-1)+"...", got)
}

func TestMalformedBlockErrorKeepsRunes(t *testing.T) {
	err := &MalformedBlockError{
		Kind:    "image",
		Literal: "x" + strings.Repeat("ü", excerptLen),
		Reason:  "missing image url",
	}
	assert.NotContains(t, err.Error(), `\x`)
}
