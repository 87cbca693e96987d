package main

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/utils/httputil"
	"go.uber.org/zap"

	"github.com/DiscordGophers/dr-folio/blog"
	"github.com/DiscordGophers/dr-folio/foundation"
	"github.com/DiscordGophers/dr-folio/site"
)

type botState struct {
	mu  sync.Mutex
	cfg configuration

	appID   discord.AppID
	state   *state.State
	store   *blog.Store
	flags   *foundation.Flags
	tracker *foundation.Tracker
	client  *http.Client
	log     *zap.Logger

	pagesMu sync.RWMutex
	pages   []site.Page
}

// features gating commands. Commands not listed are always available.
var commandFeatures = map[string]string{
	"blog":    "blog",
	"article": "blog",
	"page":    "pages",
	"parse":   "parse",
}

// withDefaults enables every gated feature the configuration does not
// mention.
func withDefaults(features map[string]foundation.Feature) map[string]foundation.Feature {
	out := make(map[string]foundation.Feature, len(features))
	for _, name := range commandFeatures {
		out[name] = foundation.Feature{Enabled: true}
	}
	for name, f := range features {
		out[name] = f
	}
	return out
}

func (b *botState) OnCommand(e *gateway.InteractionCreateEvent) {
	user := e.Sender()
	if user == nil {
		return
	}

	// ignore blacklisted users
	b.mu.Lock()
	_, ignored := b.cfg.Blacklist[discord.Snowflake(user.ID)]
	b.mu.Unlock()
	if ignored {
		b.log.Info("Ignoring interaction", zap.String("user", user.Tag()))
		return
	}

	data, ok := e.Data.(*discord.CommandInteraction)
	if !ok {
		return
	}

	if feature, ok := commandFeatures[data.Name]; ok && !b.flags.Enabled(feature) {
		b.respondEphemeral(e, failEmbed("Error", fmt.Sprintf("`/%s` is currently disabled.", data.Name)))
		return
	}

	b.tracker.Track(foundation.Event{
		Name: "command",
		Properties: map[string]string{
			"name": data.Name,
			"user": user.Tag(),
		},
	})

	switch data.Name {
	case "blog":
		b.handleBlog(e, data)
	case "article":
		b.handleArticle(e, data)
	case "page":
		b.handlePage(e, data)
	case "parse":
		b.handleParse(e, data)
	case "info":
		b.handleInfo(e, data)
	case "config":
		b.handleConfig(e, data)
	}
}

func (b *botState) respond(e *gateway.InteractionCreateEvent, embed discord.Embed) {
	b.sendResponse(e, &api.InteractionResponseData{
		Embeds: &[]discord.Embed{embed},
	})
}

func (b *botState) respondEphemeral(e *gateway.InteractionCreateEvent, embed discord.Embed) {
	b.sendResponse(e, &api.InteractionResponseData{
		Flags:  discord.EphemeralMessage,
		Embeds: &[]discord.Embed{embed},
	})
}

func (b *botState) sendResponse(e *gateway.InteractionCreateEvent, data *api.InteractionResponseData) {
	err := b.state.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: data,
	})
	if err != nil {
		b.log.Warn("could not send interaction callback", zap.Error(err))
	}
}

func loadCommands(s *state.State, appID discord.AppID, log *zap.Logger) error {
	if update {
		if _, err := s.BulkOverwriteCommands(appID, commands); err != nil {
			return fmt.Errorf("could not overwrite commands: %w", err)
		}
		log.Info("Overwrote all commands", zap.Int("count", len(commands)))
		return nil
	}

	registered, err := s.Commands(appID)
	if err != nil {
		return err
	}

	registeredMap := map[string]bool{}
	for _, c := range registered {
		registeredMap[c.Name] = true
		log.Debug("Registered command", zap.String("name", c.Name))
	}

	for _, c := range commands {
		if registeredMap[c.Name] {
			continue
		}
		if _, err := s.CreateCommand(appID, c); err != nil {
			var httperr *httputil.HTTPError
			if errors.As(err, &httperr) {
				log.Warn("command rejected", zap.ByteString("body", httperr.Body))
			}
			return fmt.Errorf("could not register: %s, %w", c.Name, err)
		}
		log.Info("Created command", zap.String("name", c.Name))
	}

	return nil
}

var commands = []api.CreateCommandData{
	{
		Name:        "blog",
		Description: "Search blog articles",
		Options: []discord.CommandOption{
			&discord.StringOption{
				OptionName:  "query",
				Description: "Search query",
				Required:    true,
			},
			&discord.BooleanOption{
				OptionName:  "description",
				Description: "Also match on the article excerpt",
			},
		},
	},
	{
		Name:        "article",
		Description: "Read a blog article",
		Options: []discord.CommandOption{
			&discord.StringOption{
				OptionName:  "id",
				Description: "Article ID",
				Required:    true,
			},
		},
	},
	{
		Name:        "page",
		Description: "Search pages of the site",
		Options: []discord.CommandOption{
			&discord.StringOption{
				OptionName:  "query",
				Description: "Search query",
				Required:    true,
			},
		},
	},
	{
		Name:        "parse",
		Description: "Preview how text is split into content blocks",
		Options: []discord.CommandOption{
			&discord.StringOption{
				OptionName:  "text",
				Description: "Text to parse (use \\n for new lines)",
				Required:    true,
			},
		},
	},
	{
		Name:        "info",
		Description: "Generic Bot Info",
	},
	{
		Name:                     "config",
		Description:              "Configure Dr-Folio",
		DefaultMemberPermissions: discord.NewPermissions(discord.PermissionAdministrator),
		Options: []discord.CommandOption{
			&discord.SubcommandGroupOption{
				OptionName:  "user",
				Description: "Manage user access",
				Subcommands: []*discord.SubcommandOption{
					{
						OptionName:  "ignore",
						Description: "Ignore commands from a user",
						Options: []discord.CommandOptionValue{
							&discord.UserOption{
								OptionName:  "user",
								Description: "User to ignore",
								Required:    true,
							},
						},
					},
					{
						OptionName:  "unignore",
						Description: "Stop ignoring commands from a user",
						Options: []discord.CommandOptionValue{
							&discord.UserOption{
								OptionName:  "user",
								Description: "User to unignore",
								Required:    true,
							},
						},
					},
					{
						OptionName:  "ignorelist",
						Description: "List all ignored users",
					},
				},
			},
			&discord.SubcommandGroupOption{
				OptionName:  "feature",
				Description: "Manage feature flags",
				Subcommands: []*discord.SubcommandOption{
					{
						OptionName:  "enable",
						Description: "Enable a feature",
						Options: []discord.CommandOptionValue{
							&discord.StringOption{
								OptionName:  "name",
								Description: "Feature name",
								Required:    true,
							},
						},
					},
					{
						OptionName:  "disable",
						Description: "Disable a feature",
						Options: []discord.CommandOptionValue{
							&discord.StringOption{
								OptionName:  "name",
								Description: "Feature name",
								Required:    true,
							},
						},
					},
					{
						OptionName:  "list",
						Description: "List all features",
					},
				},
			},
		},
	},
}
