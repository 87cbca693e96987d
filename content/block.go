package content

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a Block.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindCode      Kind = "code"
	KindCallout   Kind = "callout"
)

// Block is one typed unit of parsed or authored content. The set of
// implementations is closed: only the types in this package satisfy it, so a
// type switch over Heading, Paragraph, List, Code and Callout is exhaustive.
type Block interface {
	Kind() Kind
	Markdown() string

	block()
}

type Heading struct {
	Level int
	Text  string
}

type Paragraph struct {
	Text string
}

type List struct {
	Ordered bool
	Items   []string
}

// Code holds a code body. Parse discards the fence language, so Language is
// only set on authored content.
type Code struct {
	Text     string
	Language string
}

// Callout is never produced by Parse.
type Callout struct {
	Text string
}

func (Heading) Kind() Kind   { return KindHeading }
func (Paragraph) Kind() Kind { return KindParagraph }
func (List) Kind() Kind      { return KindList }
func (Code) Kind() Kind      { return KindCode }
func (Callout) Kind() Kind   { return KindCallout }

func (Heading) block()   {}
func (Paragraph) block() {}
func (List) block()      {}
func (Code) block()      {}
func (Callout) block()   {}

// Markdown renders the heading for chat. Levels past 3 display the same;
// the stored level is untouched.
func (h Heading) Markdown() string {
	switch h.Level {
	case 1:
		return "__**" + h.Text + "**__\n"
	case 2:
		return "__" + h.Text + "__\n"
	}
	return "**" + h.Text + "**\n"
}

func (p Paragraph) Markdown() string {
	return p.Text + "\n"
}

const bullet = "  • "

func (l List) prefix(n int) string {
	if l.Ordered {
		return "  " + strconv.Itoa(n) + ". "
	}
	return bullet
}

func (l List) Markdown() string {
	switch len(l.Items) {
	case 0:
		return ""
	case 1:
		return l.prefix(1) + l.Items[0] + "\n"
	}

	var b strings.Builder
	for i, item := range l.Items {
		b.WriteString(l.prefix(i + 1))
		b.WriteString(item)
		b.WriteRune('\n')
	}
	return b.String()
}

func (c Code) Markdown() string {
	return "```" + c.Language + "\n" + c.Text + "\n```\n"
}

func (c Callout) Markdown() string {
	lines := strings.Split(c.Text, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
