package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"
)

func (b *botState) handleConfig(e *gateway.InteractionCreateEvent, d *discord.CommandInteraction) {
	b.respondEphemeral(e, b.configure(e, d.Options))
}

func (b *botState) configure(e *gateway.InteractionCreateEvent, opts discord.CommandInteractionOptions) discord.Embed {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.canConfigure(e.Member) {
		return failEmbed("Error", "You do not have permission to configure Dr-Folio.")
	}

	embed, changed := b.applyConfig(e.GuildID, opts)
	if !changed {
		return embed
	}

	b.cfg.Foundation.Features = b.flags.Snapshot()
	if err := saveConfig(configPath, b.cfg); err != nil {
		b.log.Error("could not save config", zap.Error(err))
		return failEmbed("Error", fmt.Sprintf("Could not save config: `%v`", err))
	}
	return embed
}

// applyConfig runs a /config subcommand against the in-memory state. b.mu must
// be held.
func (b *botState) applyConfig(guild discord.GuildID, opts discord.CommandInteractionOptions) (embed discord.Embed, changed bool) {
	if len(opts) == 0 || len(opts[0].Options) == 0 {
		return failEmbed("Error", "Missing subcommand."), false
	}

	switch grp := opts[0]; grp.Name {
	case "user":
		switch cmd := grp.Options[0]; cmd.Name {
		case "ignore":
			user, _ := cmd.Options.Find("user").SnowflakeValue()

			if ok := b.canIgnore(guild, user); !ok {
				return failEmbed("Error", fmt.Sprintf("You cannot ignore <@!%s>.", user)), false
			}
			if _, ok := b.cfg.Blacklist[user]; ok {
				return failEmbed("Error", fmt.Sprintf("<@!%s> is already being ignored.", user)), false
			}

			b.cfg.Blacklist[user] = struct{}{}
			return successEmbed(fmt.Sprintf("<@!%s> is now going to be ignored from all commands.", user)), true

		case "unignore":
			user, _ := cmd.Options.Find("user").SnowflakeValue()

			if _, ok := b.cfg.Blacklist[user]; !ok {
				return failEmbed("Error", fmt.Sprintf("<@!%s> is not being ignored.", user)), false
			}

			delete(b.cfg.Blacklist, user)
			return successEmbed(fmt.Sprintf("<@!%s> is now unignored.", user)), true

		case "ignorelist":
			ids := make([]string, 0, len(b.cfg.Blacklist))
			for id := range b.cfg.Blacklist {
				ids = append(ids, fmt.Sprintf("<@!%s>", id))
			}
			sort.Strings(ids)
			if len(ids) == 0 {
				return successEmbed("No users are being ignored."), false
			}
			return successEmbed(strings.Join(ids, "\n")), false
		}

	case "feature":
		switch cmd := grp.Options[0]; cmd.Name {
		case "enable", "disable":
			name := strings.TrimSpace(cmd.Options.Find("name").String())
			if name == "" {
				return failEmbed("Error", "Feature name cannot be empty."), false
			}

			enabled := cmd.Name == "enable"
			b.flags.Set(name, enabled)
			return successEmbed(fmt.Sprintf("Feature `%s` is now %s.", name, cmd.Name+"d")), true

		case "list":
			features := b.flags.Snapshot()
			var lines []string
			for _, name := range b.flags.Names() {
				state := "disabled"
				if features[name].Enabled {
					state = "enabled"
				}
				lines = append(lines, fmt.Sprintf("`%s`: %s", name, state))
			}
			if len(lines) == 0 {
				return successEmbed("No features are configured."), false
			}
			return successEmbed(strings.Join(lines, "\n")), false
		}
	}

	return failEmbed("Error", "Unknown subcommand."), false
}

// canConfigure only allows guild members. Discord limits /config to
// administrators by default; once config roles are set, one of them is
// required as well.
func (b *botState) canConfigure(member *discord.Member) bool {
	if member == nil {
		return false
	}
	if len(b.cfg.Permissions.Config) == 0 {
		return true
	}
	for _, role := range member.RoleIDs {
		if _, ok := b.cfg.Permissions.Config[discord.Snowflake(role)]; ok {
			return true
		}
	}
	return false
}

// canIgnore refuses to ignore members holding a config role.
func (b *botState) canIgnore(guild discord.GuildID, user discord.Snowflake) bool {
	if !guild.IsValid() {
		return true
	}

	m, err := b.state.Member(guild, discord.UserID(user))
	if err != nil {
		return false
	}
	for _, role := range m.RoleIDs {
		if _, ok := b.cfg.Permissions.Config[discord.Snowflake(role)]; ok {
			return false
		}
	}
	return true
}

func successEmbed(description string) discord.Embed {
	return discord.Embed{
		Title:       "Success",
		Description: description,
		Color:       accentColor,
	}
}
