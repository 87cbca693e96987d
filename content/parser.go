// Package content turns loosely structured text into typed content blocks
// and renders blocks back out for chat and the web.
package content

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	segmentBreak = regexp.MustCompile(`\n\n+`)
	lineBreaks   = regexp.MustCompile(`\n+`)

	setextRe   = regexp.MustCompile(`^([^\n]+)\n([-=]{3,})$`)
	listLineRe = regexp.MustCompile(`^([*-]|\d+\.)` + space + `+`)
	orderedRe  = regexp.MustCompile(`^\d+\.`)
	fenceOpen  = regexp.MustCompile("^```.*\n?")
)

const fence = "```"

// space is the whitespace class every rule uses. It includes the Unicode
// space separators, so "-\u00a0item" is a list line.
const space = `[\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}]`

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// A rule classifies a single trimmed segment. It reports false when the
// segment is not of its shape.
type rule func(segment string) (Block, bool)

// rules are tried in order and the first match wins. A segment such as
// "- item\n---" is a valid list line and a setext heading at once, so the
// order is part of the contract.
var rules = []rule{
	setextHeading,
	atxHeading,
	fencedCode,
	list,
}

// Parse splits text on blank lines and classifies every non-empty segment
// into exactly one Block, preserving order. Parse never fails: anything
// unrecognised becomes a Paragraph.
func Parse(text string) []Block {
	segments := Segments(text)
	blocks := make([]Block, 0, len(segments))
	for _, s := range segments {
		blocks = append(blocks, Classify(s))
	}
	return blocks
}

// Segments returns the trimmed, non-empty blank-line separated segments of
// text, with carriage returns removed.
func Segments(text string) []string {
	text = strings.ReplaceAll(text, "\r", "")

	var segments []string
	for _, s := range segmentBreak.Split(text, -1) {
		s = trim(s)
		if s == "" {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

// Classify runs a single segment through the rule chain.
func Classify(segment string) Block {
	for _, r := range rules {
		if b, ok := r(segment); ok {
			return b
		}
	}
	return paragraph(segment)
}

func setextHeading(segment string) (Block, bool) {
	m := setextRe.FindStringSubmatch(segment)
	if m == nil {
		return nil, false
	}

	level := 2
	if m[2][0] == '=' {
		level = 1
	}
	return Heading{Level: level, Text: trim(m[1])}, true
}

func atxHeading(segment string) (Block, bool) {
	n := 0
	for n < len(segment) && segment[n] == '#' {
		n++
	}
	if n == 0 || n == len(segment) {
		return nil, false
	}

	r, _ := utf8.DecodeRuneInString(segment[n:])
	if !isSpace(r) {
		return nil, false
	}
	return Heading{Level: n, Text: trim(segment[n:])}, true
}

func fencedCode(segment string) (Block, bool) {
	if !strings.HasPrefix(segment, fence) {
		return nil, false
	}

	code := fenceOpen.ReplaceAllString(segment, "")
	code = strings.TrimSuffix(code, fence)
	return Code{Text: trim(code)}, true
}

// list accepts a segment when every line carries some list marker. Markers
// may be mixed; the first line alone decides Ordered.
func list(segment string) (Block, bool) {
	var lines []string
	for _, line := range lineBreaks.Split(segment, -1) {
		line = trim(line)
		if line == "" {
			continue
		}
		if !listLineRe.MatchString(line) {
			return nil, false
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, false
	}

	items := make([]string, len(lines))
	for i, line := range lines {
		items[i] = trim(listLineRe.ReplaceAllString(line, ""))
	}
	return List{Ordered: orderedRe.MatchString(lines[0]), Items: items}, true
}

func paragraph(segment string) Block {
	return Paragraph{Text: lineBreaks.ReplaceAllString(segment, "\n")}
}
