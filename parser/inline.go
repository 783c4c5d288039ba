package parser

import (
	"strings"
	"unicode/utf8"
)

// openRun is a run that has been started but not yet flushed.
type openRun struct {
	style  Style
	opener string // marker text that opened a styled run
	buf    strings.Builder
}

// runAccumulator is the state machine behind Tokenize. A nil cur is the
// "no run" state.
type runAccumulator struct {
	runs []TextRun
	cur  *openRun
}

// Tokenize splits a fragment of text into styled runs.
//
// Markers are recognised with the precedence "**" (strong), "*" and "_"
// (italic), "`" (code). A marker opens a run, and the next marker of the
// same style closes it. Markers of another style inside an open run are
// kept as literal text. A run left open at the end of the input is merged
// back, marker included, into a directly preceding plain run; without such
// a run it is emitted with its style.
//
// Adjacent runs of the same style are merged and empty runs are dropped,
// so the empty string yields no runs.
func Tokenize(text string) []TextRun {
	var acc runAccumulator
	for pos := 0; pos < len(text); {
		style, n := markerAt(text[pos:])
		if n == 0 {
			_, size := utf8.DecodeRuneInString(text[pos:])
			acc.char(text[pos : pos+size])
			pos += size
			continue
		}
		acc.marker(style, text[pos:pos+n])
		pos += n
	}
	acc.finish()
	return acc.runs
}

// markerAt classifies the head of text. n is the marker length in bytes,
// zero when the head is an ordinary character.
func markerAt(text string) (style Style, n int) {
	switch {
	case strings.HasPrefix(text, "**"):
		return Strong, 2
	case text[0] == '*', text[0] == '_':
		return Italic, 1
	case text[0] == '`':
		return CodeStyle, 1
	}
	return Plain, 0
}

func (a *runAccumulator) char(c string) {
	if a.cur == nil {
		a.cur = &openRun{style: Plain}
	}
	a.cur.buf.WriteString(c)
}

func (a *runAccumulator) marker(style Style, literal string) {
	switch {
	case a.cur == nil:
		a.cur = &openRun{style: style, opener: literal}
	case a.cur.style == Plain:
		a.flush()
		a.cur = &openRun{style: style, opener: literal}
	case a.cur.style == style:
		// closing delimiter
		a.flush()
	default:
		a.cur.buf.WriteString(literal)
	}
}

func (a *runAccumulator) finish() {
	if a.cur == nil {
		return
	}
	if a.cur.style != Plain {
		if n := len(a.runs); n > 0 && a.runs[n-1].Style == Plain {
			a.runs[n-1].Value += a.cur.opener + a.cur.buf.String()
			a.cur = nil
			return
		}
	}
	a.flush()
}

func (a *runAccumulator) flush() {
	run := TextRun{Style: a.cur.style, Value: a.cur.buf.String()}
	a.cur = nil
	if run.Value == "" {
		return
	}
	if n := len(a.runs); n > 0 && a.runs[n-1].Style == run.Style {
		a.runs[n-1].Value += run.Value
		return
	}
	a.runs = append(a.runs, run)
}
