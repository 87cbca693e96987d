package main

import (
	"github.com/DiscordGophers/dr-folio/content"
)

const (
	// Discord caps descriptions at 4096; leave room for headers and footers.
	descLimit = 2800

	accentColor = 0x007D9C
	failColor   = 0xEE0000
)

// format renders blocks into at most descLimit-initial bytes of chat
// markdown. If not even the first block fits, a placeholder is returned.
func format(blocks []content.Block, initial int) (string, bool) {
	if len(blocks) == 0 {
		return "*No content*", false
	}

	limit := descLimit - initial
	if len(blocks[0].Markdown()) > limit {
		return "*Content too long to display*", true
	}
	return content.Render(blocks, limit)
}
