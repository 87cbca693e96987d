package main

import (
	"fmt"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/dustin/go-humanize"

	"github.com/DiscordGophers/dr-folio/blog"
	"github.com/DiscordGophers/dr-folio/content"
	"github.com/DiscordGophers/dr-folio/site"
)

func articleEmbed(a blog.Article, body string) discord.Embed {
	footer := a.Author
	if published := a.Published(); !published.IsZero() {
		footer += fmt.Sprintf("\n%s (%s)", a.Date, humanize.Time(published))
	}
	if a.ReadTime != "" {
		footer += "\n" + a.ReadTime + " read"
	}

	embed := discord.Embed{
		Title:       a.Title,
		Description: fmt.Sprintf("*%s*\n\n%s", a.Excerpt, body),
		Color:       accentColor,
		Footer:      &discord.EmbedFooter{Text: footer},
	}
	if len(a.Tags) != 0 {
		embed.Fields = []discord.EmbedField{{
			Name:  "Tags",
			Value: strings.Join(a.Tags, ", "),
		}}
	}
	return embed
}

func resultsEmbed(query string, matchDesc bool, results []blog.Article) discord.Embed {
	fields := make([]discord.EmbedField, 0, len(results))
	for _, a := range results {
		fields = append(fields, discord.EmbedField{
			Name:  fmt.Sprintf("%s, %s", a.Title, a.Date),
			Value: fmt.Sprintf("*%s*\n%s\n`/article id:%s`", a.Author, a.Excerpt, a.ID),
		})
	}

	return discord.Embed{
		Title:       fmt.Sprintf("Blog: %d Results", len(results)),
		Description: fmt.Sprintf("Search Term: %q\nMatch on description: %t", query, matchDesc),
		Fields:      fields,
		Color:       accentColor,
	}
}

func pageEmbed(p site.Page) discord.Embed {
	body, _ := format(p.Blocks, len(p.URL))
	title := p.Title
	if title == "" {
		title = p.URL
	}
	return discord.Embed{
		Title:       title,
		URL:         p.URL,
		Description: body,
		Color:       accentColor,
		Footer:      &discord.EmbedFooter{Text: p.URL},
	}
}

func pagesEmbed(query string, pages []site.Page) discord.Embed {
	var b strings.Builder
	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = p.URL
		}
		fmt.Fprintf(&b, "> [%s](%s)\n", title, p.URL)
	}

	return discord.Embed{
		Title:       fmt.Sprintf("Pages: %d Results", len(pages)),
		Description: fmt.Sprintf("Search Term: %q\n\n%s", query, b.String()),
		Color:       accentColor,
	}
}

func blocksEmbed(blocks []content.Block) discord.Embed {
	counts := map[content.Kind]int{}
	for _, b := range blocks {
		counts[b.Kind()]++
	}

	body, _ := format(blocks, 0)
	return discord.Embed{
		Title:       fmt.Sprintf("Parsed %s", pluralBlocks(len(blocks))),
		Description: body,
		Color:       accentColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("%d headings, %d paragraphs, %d lists, %d code",
				counts[content.KindHeading], counts[content.KindParagraph],
				counts[content.KindList], counts[content.KindCode]),
		},
	}
}

func pluralBlocks(n int) string {
	if n == 1 {
		return "1 block"
	}
	return humanize.Comma(int64(n)) + " blocks"
}

func failEmbed(title, description string) discord.Embed {
	return discord.Embed{
		Title:       title,
		Description: description,
		Color:       failColor,
	}
}
