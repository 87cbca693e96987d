// Package site scrapes pages of the portfolio site into content blocks.
package site

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/DiscordGophers/dr-folio/content"
)

type Page struct {
	URL      string
	BaseURL  string
	Fragment string
	Title    string

	// Text is the loosely structured text the blocks were parsed from.
	Text   string
	Blocks []content.Block
}

func fetch(ctx context.Context, client *http.Client, uri string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not get %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("could not get %s: status %s", uri, res.Status)
	}

	document, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse body: %w", err)
	}
	return document, nil
}

// Scrape fetches uri and parses the text of its main content. The content
// root is the first of article, main or body that exists.
func Scrape(ctx context.Context, client *http.Client, uri string) (Page, error) {
	document, err := fetch(ctx, client, uri)
	if err != nil {
		return Page{}, err
	}

	base, fragment := splitFragment(uri)
	page := Page{
		URL:      uri,
		BaseURL:  base,
		Fragment: fragment,
		Title:    strings.TrimSpace(document.Find("title").First().Text()),
	}

	root := document.Find("article").First()
	if root.Length() == 0 {
		root = document.Find("main").First()
	}
	if root.Length() == 0 {
		root = document.Find("body").First()
	}

	// A fragment narrows the page to the element with that id.
	if fragment != "" {
		if sel := document.Find("#" + fragment).First(); sel.Length() != 0 {
			root = sel
		}
	}

	page.Text = Text(root)
	page.Blocks = content.Parse(page.Text)
	return page, nil
}

// Text flattens an HTML subtree into blank-line separated segments written in
// the shape content.Parse recognises.
func Text(s *goquery.Selection) string {
	var segments []string
	for _, n := range s.Nodes {
		segments = appendSegments(segments, n)
	}
	return strings.Join(segments, "\n\n")
}

// blockElements break the flow of text. Text nodes and any other element
// between them are gathered into a single segment.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "body": true,
	"dd": true, "details": true, "dialog": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figure": true,
	"form": true, "header": true, "hgroup": true, "hr": true,
	"html": true, "li": true, "main": true, "section": true,
	"summary": true, "table": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true,
}

func appendSegments(segments []string, n *html.Node) []string {
	var run strings.Builder
	flush := func() {
		if text := collapse(run.String()); text != "" {
			segments = append(segments, text)
		}
		run.Reset()
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			run.WriteString(c.Data)
			continue
		case html.ElementNode:
		default:
			continue
		}

		sel := goquery.NewDocumentFromNode(c).Selection
		switch c.Data {
		case "script", "style", "nav", "footer", "noscript", "template":
			continue
		case "br":
			run.WriteByte(' ')
			continue
		case "h1", "h2", "h3", "h4", "h5", "h6",
			"p", "blockquote", "figcaption", "pre", "ul", "ol":
		default:
			if !blockElements[c.Data] {
				run.WriteString(sel.Text())
				continue
			}
		}

		flush()
		switch c.Data {
		case "h1", "h2", "h3", "h4", "h5", "h6":
			level, _ := strconv.Atoi(c.Data[1:])
			if text := collapse(sel.Text()); text != "" {
				segments = append(segments, strings.Repeat("#", level)+" "+text)
			}
		case "p", "blockquote", "figcaption":
			if text := collapse(sel.Text()); text != "" {
				segments = append(segments, text)
			}
		case "pre":
			segments = append(segments, "```\n"+strings.Trim(sel.Text(), "\n")+"\n```")
		case "ul", "ol":
			var items []string
			sel.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
				text := collapse(li.Text())
				if text == "" {
					return
				}
				marker := "-"
				if c.Data == "ol" {
					marker = strconv.Itoa(len(items)+1) + "."
				}
				items = append(items, marker+" "+text)
			})
			if len(items) != 0 {
				segments = append(segments, strings.Join(items, "\n"))
			}
		default:
			segments = appendSegments(segments, c)
		}
	}
	flush()
	return segments
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitFragment(uri string) (base, fragment string) {
	u, err := url.Parse(uri)
	if err != nil {
		return uri, ""
	}
	fragment = u.Fragment
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), fragment
}

// Sitemap returns the page URLs listed in a sitemap.xml document.
func Sitemap(ctx context.Context, client *http.Client, uri string) ([]string, error) {
	document, err := fetch(ctx, client, uri)
	if err != nil {
		return nil, err
	}

	var urls []string
	document.Find("loc").Each(func(_ int, s *goquery.Selection) {
		if loc := strings.TrimSpace(s.Text()); loc != "" {
			urls = append(urls, loc)
		}
	})
	return urls, nil
}

type PageGroup struct {
	Base      Page
	Fragments []Page
}

// Group collects pages under their base URL. A page without a fragment is
// the group's base; groups are ordered by base URL.
func Group(pages []Page) []PageGroup {
	groups := map[string]*PageGroup{}
	var order []string

	for _, p := range pages {
		g, ok := groups[p.BaseURL]
		if !ok {
			g = &PageGroup{Base: p}
			groups[p.BaseURL] = g
			order = append(order, p.BaseURL)
		}

		if p.Fragment != "" {
			g.Fragments = append(g.Fragments, p)
			continue
		}
		g.Base = p
	}

	sort.Strings(order)

	out := make([]PageGroup, 0, len(order))
	for _, base := range order {
		out = append(out, *groups[base])
	}
	return out
}
