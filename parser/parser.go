package parser

import (
	"fmt"
	"strings"
)

// headerDelimiter opens and closes the metadata header.
const headerDelimiter = "---"

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Parse parses a complete document: an optional metadata header followed by
// the body blocks. Line endings are normalised to "\n" first.
//
// Errors from the block matcher are wrapped; use errors.Is with
// ErrUnmatchedBlock or ErrMalformedBlock to tell them apart. Offsets in
// those errors are relative to the body.
func Parse(input string) (*Document, error) {
	if strings.ContainsRune(input, '\r') {
		input = newlineReplacer.Replace(input)
	}

	header, body := SplitDocument(input)

	blocks, err := ParseBlocks(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse body: %w", err)
	}

	return &Document{
		Metadata: ParseHeader(header),
		Blocks:   blocks,
	}, nil
}

// SplitDocument separates the metadata header from the body.
//
// The header is present only when the very first line is "---" and a later
// line is "---" too; header is then the text between the two lines and body
// everything after the closing one. Otherwise header is empty and body is
// the whole input.
func SplitDocument(input string) (header, body string) {
	first, rest, ok := strings.Cut(input, "\n")
	if !ok || strings.TrimSpace(first) != headerDelimiter {
		return "", input
	}

	for pos := 0; pos <= len(rest); {
		line, _, found := strings.Cut(rest[pos:], "\n")
		if strings.TrimSpace(line) == headerDelimiter {
			header = strings.TrimSuffix(rest[:pos], "\n")
			end := pos + len(line)
			if found {
				end++
			}
			return header, rest[end:]
		}
		if !found {
			break
		}
		pos += len(line) + 1
	}

	return "", input
}

// ParseHeader reads "key: value" lines into a map. Keys and values are
// trimmed, one layer of matching single or double quotes is removed from
// values, and later keys overwrite earlier ones. Lines without a colon or
// with an empty key are ignored.
func ParseHeader(header string) map[string]string {
	meta := make(map[string]string)
	if header == "" {
		return meta
	}

	for _, line := range strings.Split(header, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		meta[key] = unquote(strings.TrimSpace(value))
	}

	return meta
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
