package parser

import "regexp"

var linkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// ExtractLinks splits text around "[label](url)" links.
//
// Text between links is returned as RawText, untouched. Link labels are
// run through Tokenize. Empty raw segments are dropped, so the empty string
// yields no segments.
func ExtractLinks(text string) []Segment {
	var segs []Segment
	for pos := 0; pos < len(text); {
		loc := linkPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			segs = append(segs, RawText(text[pos:]))
			break
		}
		if loc[0] > 0 {
			segs = append(segs, RawText(text[pos:pos+loc[0]]))
		}
		segs = append(segs, Link{
			Body: Tokenize(text[pos+loc[2] : pos+loc[3]]),
			URL:  text[pos+loc[4] : pos+loc[5]],
		})
		pos += loc[1]
	}
	return segs
}

// ParseTextBody builds the span sequence of a block body: links are
// extracted first, then the text around them is tokenized. Style markers
// therefore never straddle a link boundary.
func ParseTextBody(text string) []Span {
	var spans []Span
	for _, seg := range ExtractLinks(text) {
		switch seg := seg.(type) {
		case RawText:
			for _, run := range Tokenize(string(seg)) {
				spans = append(spans, run)
			}
		case Link:
			spans = append(spans, seg)
		}
	}
	return spans
}
