package blog

import (
	"sort"
	"strings"
	"time"

	"github.com/DiscordGophers/dr-folio/content"
)

// DateLayout is the layout of Article.Date.
const DateLayout = "January 2, 2006"

type Article struct {
	ID         string
	Title      string
	titleLower string

	Excerpt      string
	excerptLower string

	Date        string
	PublishedAt time.Time
	ReadTime    string
	Author      string
	Tags        []string
	HeroImage   string
	Featured    bool

	Content []content.Block
}

type MatchType uint8

const (
	NoMatch MatchType = iota
	MatchTitle
	MatchDesc
	MatchExact
)

// Match reports how keyword relates to the article. Every word of keyword must
// appear in the title or the excerpt.
func (a Article) Match(keyword string) MatchType {
	if a.ID == keyword {
		return MatchExact
	}

	f := strings.Fields(strings.ToLower(keyword))
	if len(f) == 0 {
		return NoMatch
	}

	match := MatchDesc

	for _, s := range f {
		if strings.Contains(a.titleLower, s) {
			match = MatchTitle
			continue
		}
		if strings.Contains(a.excerptLower, s) {
			continue
		}
		return NoMatch
	}
	return match
}

// Published is the time the article sorts by: PublishedAt if set, otherwise
// the parsed Date. An unparsable Date yields the zero time.
func (a Article) Published() time.Time {
	if !a.PublishedAt.IsZero() {
		return a.PublishedAt
	}
	t, err := time.Parse(DateLayout, a.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (a *Article) index() {
	a.titleLower = strings.ToLower(a.Title)
	a.excerptLower = strings.ToLower(a.Excerpt)
}

// Store holds a fixed set of articles. It is safe for concurrent reads.
type Store struct {
	articles []Article
	byID     map[string]int
}

func NewStore(articles []Article) *Store {
	s := &Store{
		articles: make([]Article, len(articles)),
		byID:     make(map[string]int, len(articles)),
	}
	copy(s.articles, articles)

	sort.SliceStable(s.articles, func(i, j int) bool {
		return s.articles[i].Published().After(s.articles[j].Published())
	})
	for i := range s.articles {
		s.articles[i].index()
		s.byID[s.articles[i].ID] = i
	}
	return s
}

// Articles returns every article, newest first.
func (s *Store) Articles() []Article {
	out := make([]Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Featured returns the featured articles, newest first.
func (s *Store) Featured() []Article {
	var out []Article
	for _, a := range s.articles {
		if a.Featured {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) ByID(id string) (Article, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Article{}, false
	}
	return s.articles[i], true
}

// Search matches keyword against every article. An exact ID match short
// circuits and is returned alone.
func (s *Store) Search(keyword string) (title []Article, desc []Article, total int) {
	for _, a := range s.articles {
		switch a.Match(keyword) {
		case NoMatch:
			continue
		case MatchExact:
			return []Article{a}, nil, 1
		case MatchTitle:
			title = append(title, a)
		case MatchDesc:
			desc = append(desc, a)
		}
		total++
	}
	return
}
