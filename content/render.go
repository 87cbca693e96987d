package content

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
)

const omitted = "*More content omitted*"

// Render writes blocks as chat markdown of at most limit bytes. When the
// whole output does not fit, trailing blocks are dropped for a notice and more
// is reported as true.
func Render(blocks []Block, limit int) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}

	var b strings.Builder
	for _, block := range blocks {
		b.WriteString(block.Markdown())
		b.WriteRune('\n')
	}
	if out := strings.TrimSpace(b.String()); len(out) <= limit {
		return out, false
	}

	b.Reset()
	for _, block := range blocks {
		md := block.Markdown()
		if b.Len()+len(md)+len("\n")+len(omitted) > limit {
			break
		}
		b.WriteString(md)
		b.WriteRune('\n')
	}
	b.WriteString(omitted)

	return strings.TrimSpace(b.String()), true
}

// inline only knows paragraphs, so block markers inside a block's text stay
// literal. Raw HTML is not parsed and comes out escaped.
var inline = goldmark.New(
	goldmark.WithParser(parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)),
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
)

// HTML renders blocks for the site. Inline markdown in text is converted,
// code bodies are escaped verbatim.
func HTML(blocks []Block) (string, error) {
	var b strings.Builder
	for _, block := range blocks {
		switch v := block.(type) {
		case Heading:
			level := v.Level
			if level > 6 {
				level = 6
			}
			text, err := inlineHTML(v.Text)
			if err != nil {
				return "", err
			}
			tag := "h" + strconv.Itoa(level)
			fmt.Fprintf(&b, "<%s>%s</%s>\n", tag, text, tag)

		case Paragraph:
			text, err := inlineHTML(v.Text)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "<p>%s</p>\n", text)

		case List:
			tag := "ul"
			if v.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(&b, "<%s>\n", tag)
			for _, item := range v.Items {
				text, err := inlineHTML(item)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(&b, "<li>%s</li>\n", text)
			}
			fmt.Fprintf(&b, "</%s>\n", tag)

		case Code:
			if v.Language != "" {
				fmt.Fprintf(&b, "<pre><code class=\"language-%s\">%s</code></pre>\n",
					html.EscapeString(v.Language), html.EscapeString(v.Text))
				continue
			}
			fmt.Fprintf(&b, "<pre><code>%s</code></pre>\n", html.EscapeString(v.Text))

		case Callout:
			text, err := inlineHTML(v.Text)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "<aside class=\"callout\">%s</aside>\n", text)
		}
	}
	return b.String(), nil
}

// inlineHTML converts a single run of text and strips the paragraph goldmark
// wraps it in. Blank lines are folded so the text stays one paragraph.
func inlineHTML(text string) (string, error) {
	text = lineBreaks.ReplaceAllString(strings.TrimSpace(text), "\n")
	if text == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := inline.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("could not convert %q: %w", text, err)
	}

	out := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(out, "<p>") || !strings.HasSuffix(out, "</p>") || strings.Count(out, "<p>") != 1 {
		return "", fmt.Errorf("could not convert %q: not a single paragraph", text)
	}
	return out[len("<p>") : len(out)-len("</p>")], nil
}
