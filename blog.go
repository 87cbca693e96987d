package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/DiscordGophers/dr-folio/blog"
	"github.com/DiscordGophers/dr-folio/site"
)

const maxResults = 5

func validQuery(query string) bool {
	return len(query) >= 3 && len(query) <= 40
}

func (b *botState) handleBlog(e *gateway.InteractionCreateEvent, d *discord.CommandInteraction) {
	// only arg and required, always present
	query := d.Options.Find("query").String()

	var matchDesc bool
	if opt := d.Options.Find("description"); opt.Name != "" {
		matchDesc, _ = opt.BoolValue()
	}

	b.log.Info("blog used",
		zap.String("user", e.Sender().Tag()),
		zap.String("query", query),
		zap.Bool("description", matchDesc))

	if !validQuery(query) {
		b.respondEphemeral(e, failEmbed("Error", "Your query must be between 3 and 40 characters."))
		return
	}

	fromTitle, fromDesc, _ := b.store.Search(query)
	if len(fromTitle) == 1 && fromTitle[0].ID == query {
		body, _ := articleBody(fromTitle[0])
		b.respond(e, articleEmbed(fromTitle[0], body))
		return
	}

	results := fromTitle
	if matchDesc {
		results = append(results, fromDesc...)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	if len(results) == 0 {
		b.respondEphemeral(e, failEmbed("Error", fmt.Sprintf("No results found for %q", query)))
		return
	}

	b.respond(e, resultsEmbed(query, matchDesc, results))
}

func (b *botState) handleArticle(e *gateway.InteractionCreateEvent, d *discord.CommandInteraction) {
	id := strings.TrimSpace(d.Options.Find("id").String())

	b.log.Info("article used", zap.String("user", e.Sender().Tag()), zap.String("id", id))

	article, ok := b.store.ByID(id)
	if !ok {
		b.respondEphemeral(e, failEmbed("Error", fmt.Sprintf("No article with the ID `%s`.", id)))
		return
	}

	body, more := articleBody(article)
	if more {
		b.log.Debug("article truncated", zap.String("id", id))
	}
	b.respond(e, articleEmbed(article, body))
}

func (b *botState) handlePage(e *gateway.InteractionCreateEvent, d *discord.CommandInteraction) {
	query := d.Options.Find("query").String()

	b.log.Info("page used", zap.String("user", e.Sender().Tag()), zap.String("query", query))

	if !validQuery(query) {
		b.respondEphemeral(e, failEmbed("Error", "Your query must be between 3 and 40 characters."))
		return
	}

	b.pagesMu.RLock()
	matches := matchPages(b.pages, query)
	b.pagesMu.RUnlock()

	switch len(matches) {
	case 0:
		b.respondEphemeral(e, failEmbed("Error", fmt.Sprintf("No pages found for %q", query)))
	case 1:
		b.respond(e, pageEmbed(matches[0]))
	default:
		if len(matches) > maxResults {
			matches = matches[:maxResults]
		}
		b.respond(e, pagesEmbed(query, matches))
	}
}

// matchPages returns the pages whose title or URL contains every word of
// query.
func matchPages(pages []site.Page, query string) []site.Page {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil
	}

	var out []site.Page
outer:
	for _, p := range pages {
		haystack := strings.ToLower(p.Title + " " + p.URL)
		for _, f := range fields {
			if !strings.Contains(haystack, f) {
				continue outer
			}
		}
		out = append(out, p)
	}
	return out
}

// updatePages scrapes every page of the configured sitemap, then again once
// a day. A failed refresh keeps the previous pages.
func (b *botState) updatePages(ctx context.Context) {
	refresh := func() {
		pages, err := b.scrapeSitemap(ctx)
		if err != nil {
			b.log.Warn("could not refresh pages", zap.Error(err))
			return
		}

		b.pagesMu.Lock()
		b.pages = pages
		b.pagesMu.Unlock()
		b.log.Info("pages refreshed", zap.Int("count", len(pages)))
	}

	refresh()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

func (b *botState) scrapeSitemap(ctx context.Context) ([]site.Page, error) {
	urls, err := site.Sitemap(ctx, b.client, b.cfg.Sitemap)
	if err != nil {
		return nil, err
	}

	var pages []site.Page
	for _, u := range urls {
		page, err := site.Scrape(ctx, b.client, u)
		if err != nil {
			b.log.Warn("could not scrape page", zap.String("url", u), zap.Error(err))
			continue
		}
		pages = append(pages, page)
	}

	var ordered []site.Page
	for _, g := range site.Group(pages) {
		ordered = append(ordered, g.Base)
		ordered = append(ordered, g.Fragments...)
	}
	return ordered, nil
}

// articleBody renders an article's blocks within the embed description limit.
func articleBody(a blog.Article) (string, bool) {
	return format(a.Content, len(a.Excerpt))
}
