package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/k0kubun/pp/v3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DiscordGophers/dr-folio/content"
	"github.com/DiscordGophers/dr-folio/site"
)

const maxParseInput = 2000

func (b *botState) handleParse(e *gateway.InteractionCreateEvent, d *discord.CommandInteraction) {
	// Slash command options are single line; allow \n as an escape.
	text := strings.ReplaceAll(d.Options.Find("text").String(), `\n`, "\n")

	b.log.Info("parse used", zap.String("user", e.Sender().Tag()), zap.Int("length", len(text)))

	if len(text) > maxParseInput {
		b.respondEphemeral(e, failEmbed("Error", fmt.Sprintf("Your text must be at most %d characters.", maxParseInput)))
		return
	}

	b.respondEphemeral(e, blocksEmbed(content.Parse(text)))
}

var parseFormat string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse text into content blocks",
	Long:  "Parse a file, or standard input when no file is given, and print the resulting blocks.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "could not open input")
			}
			defer f.Close()
			r = f
		}

		text, err := io.ReadAll(r)
		if err != nil {
			return errors.Wrap(err, "could not read input")
		}

		blocks := content.Parse(string(text))
		logger.Debug("parsed", zap.Int("bytes", len(text)), zap.Int("blocks", len(blocks)))
		return printBlocks(cmd.OutOrStdout(), blocks, parseFormat)
	},
}

var scrapeFormat string

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a page into content blocks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 30 * time.Second}
		page, err := site.Scrape(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}

		logger.Info("scraped", zap.String("url", page.URL), zap.String("title", page.Title), zap.Int("blocks", len(page.Blocks)))
		return printBlocks(cmd.OutOrStdout(), page.Blocks, scrapeFormat)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "markdown", "output format: markdown, html or dump")
	scrapeCmd.Flags().StringVarP(&scrapeFormat, "format", "f", "markdown", "output format: markdown, html or dump")
}

func printBlocks(w io.Writer, blocks []content.Block, format string) error {
	switch format {
	case "markdown", "md":
		for _, b := range blocks {
			if _, err := io.WriteString(w, b.Markdown()+"\n"); err != nil {
				return err
			}
		}
		return nil

	case "html":
		out, err := content.HTML(blocks)
		if err != nil {
			return errors.Wrap(err, "could not render html")
		}
		_, err = io.WriteString(w, out)
		return err

	case "dump":
		printer := pp.New()
		printer.SetOutput(w)
		printer.SetColoringEnabled(false)
		_, err := printer.Println(blocks)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
