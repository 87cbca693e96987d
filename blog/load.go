package blog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DiscordGophers/dr-folio/content"
)

//go:embed posts.yaml
var posts []byte

type post struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Excerpt     string     `yaml:"excerpt"`
	Date        string     `yaml:"date"`
	PublishedAt time.Time  `yaml:"publishedAt"`
	ReadTime    string     `yaml:"readTime"`
	Author      string     `yaml:"author"`
	Tags        []string   `yaml:"tags"`
	HeroImage   string     `yaml:"heroImage"`
	Featured    bool       `yaml:"featured"`
	Body        string     `yaml:"body"`
	Blocks      []rawBlock `yaml:"blocks"`
}

// rawBlock is an authored block. Exactly one of the kind fields is set.
type rawBlock struct {
	Heading   *string  `yaml:"heading"`
	Level     int      `yaml:"level"`
	Paragraph *string  `yaml:"paragraph"`
	List      []string `yaml:"list"`
	Ordered   bool     `yaml:"ordered"`
	Code      *string  `yaml:"code"`
	Language  string   `yaml:"language"`
	Callout   *string  `yaml:"callout"`
}

var errNoKind = errors.New("block has no kind")

func (r rawBlock) block() (content.Block, error) {
	var blocks []content.Block
	if r.Heading != nil {
		level := r.Level
		if level < 1 {
			level = 2
		}
		blocks = append(blocks, content.Heading{Level: level, Text: *r.Heading})
	}
	if r.Paragraph != nil {
		blocks = append(blocks, content.Paragraph{Text: *r.Paragraph})
	}
	if len(r.List) != 0 {
		blocks = append(blocks, content.List{Ordered: r.Ordered, Items: r.List})
	}
	if r.Code != nil {
		blocks = append(blocks, content.Code{Text: *r.Code, Language: r.Language})
	}
	if r.Callout != nil {
		blocks = append(blocks, content.Callout{Text: *r.Callout})
	}

	switch len(blocks) {
	case 0:
		return nil, errNoKind
	case 1:
		return blocks[0], nil
	}
	return nil, fmt.Errorf("block sets %d kinds", len(blocks))
}

// Load decodes a YAML list of posts. A post's content is either authored
// blocks or a raw body that is run through content.Parse.
func Load(r io.Reader) ([]Article, error) {
	var raw []post
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not decode posts: %w", err)
	}

	articles := make([]Article, 0, len(raw))
	for _, p := range raw {
		if p.ID == "" {
			return nil, fmt.Errorf("post %q has no id", p.Title)
		}
		if p.Body != "" && len(p.Blocks) != 0 {
			return nil, fmt.Errorf("post %q sets both body and blocks", p.ID)
		}

		a := Article{
			ID:          p.ID,
			Title:       p.Title,
			Excerpt:     p.Excerpt,
			Date:        p.Date,
			PublishedAt: p.PublishedAt,
			ReadTime:    p.ReadTime,
			Author:      p.Author,
			Tags:        p.Tags,
			HeroImage:   p.HeroImage,
			Featured:    p.Featured,
			Content:     content.Parse(p.Body),
		}
		for i, rb := range p.Blocks {
			b, err := rb.block()
			if err != nil {
				return nil, fmt.Errorf("post %q block %d: %w", p.ID, i, err)
			}
			a.Content = append(a.Content, b)
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// LoadDefault loads the posts bundled with the binary.
func LoadDefault() (*Store, error) {
	articles, err := Load(bytes.NewReader(posts))
	if err != nil {
		return nil, err
	}
	return NewStore(articles), nil
}
