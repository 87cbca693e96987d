package main

import (
	"bytes"
	"fmt"
	"runtime"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/dustin/go-humanize"
)

var started = time.Now()

func (b *botState) handleInfo(e *gateway.InteractionCreateEvent, _ *discord.CommandInteraction) {
	b.respondEphemeral(e, infoEmbed(b))
}

func infoEmbed(b *botState) discord.Embed {
	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	b.pagesMu.RLock()
	pages := len(b.pages)
	b.pagesMu.RUnlock()

	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "Go: %s\n", runtime.Version())
	fmt.Fprintf(buf, "Uptime: <t:%d:R>\n", started.Unix())
	fmt.Fprintf(buf, "Memory: %s / %s (alloc / sys)\n", humanize.Bytes(stats.Alloc), humanize.Bytes(stats.Sys))
	fmt.Fprintf(buf, "Articles: %s\n", humanize.Comma(int64(len(b.store.Articles()))))
	fmt.Fprintf(buf, "Pages: %s\n", humanize.Comma(int64(pages)))
	fmt.Fprintf(buf, "Concurrent Tasks: %s\n", humanize.Comma(int64(runtime.NumGoroutine())))

	name := "Dr-Folio"
	b.mu.Lock()
	if site := b.cfg.Foundation.Metadata.SiteName; site != "" {
		name = site
	}
	b.mu.Unlock()

	return discord.Embed{
		Title:       name,
		Description: buf.String(),
		Color:       accentColor,
	}
}
