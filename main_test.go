package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DiscordGophers/dr-folio/blog"
	"github.com/DiscordGophers/dr-folio/content"
	"github.com/DiscordGophers/dr-folio/foundation"
	"github.com/DiscordGophers/dr-folio/site"
)

func TestMain(m *testing.M) {
	logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestPrintBlocks(t *testing.T) {
	blocks := content.Parse("# Head\n\n- a\n- b")

	var buf bytes.Buffer
	require.NoError(t, printBlocks(&buf, blocks, "markdown"))
	assert.Equal(t, "__**Head**__\n\n  • a\n  • b\n\n", buf.String())

	buf.Reset()
	require.NoError(t, printBlocks(&buf, blocks, "html"))
	assert.Equal(t, "<h1>Head</h1>\n<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n", buf.String())

	buf.Reset()
	require.NoError(t, printBlocks(&buf, blocks, "dump"))
	assert.Contains(t, buf.String(), "Head")

	assert.Error(t, printBlocks(&buf, blocks, "yaml"))
}

func TestParseCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader("Title\n===\n\nbody"))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parse", "--format", "markdown"})

	// Skip the production logger set up by the root command.
	pre := rootCmd.PersistentPreRunE
	rootCmd.PersistentPreRunE = nil
	defer func() { rootCmd.PersistentPreRunE = pre }()

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "__**Title**__\n\nbody\n\n", out.String())
}

func TestFormat(t *testing.T) {
	md, more := format(nil, 0)
	assert.Equal(t, "*No content*", md)
	assert.False(t, more)

	long := content.Paragraph{Text: strings.Repeat("x", descLimit)}
	md, more = format([]content.Block{long}, 10)
	assert.Equal(t, "*Content too long to display*", md)
	assert.True(t, more)

	md, more = format(content.Parse("short"), 0)
	assert.Equal(t, "short", md)
	assert.False(t, more)
}

func TestMatchPages(t *testing.T) {
	pages := []site.Page{
		{URL: "https://example.com/crypto-fabric", Title: "Crypto Fabric"},
		{URL: "https://example.com/zero", Title: "Zero"},
		{URL: "https://example.com/blog", Title: "Blog"},
	}

	assert.Len(t, matchPages(pages, "fabric"), 1)
	assert.Len(t, matchPages(pages, "example"), 3)
	assert.Len(t, matchPages(pages, "crypto zero"), 0)
	assert.Nil(t, matchPages(pages, "  "))
}

func TestBlocksEmbed(t *testing.T) {
	embed := blocksEmbed(content.Parse("# Head\n\ntext\n\n- a"))

	assert.Equal(t, "Parsed 3 blocks", embed.Title)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "1 headings, 1 paragraphs, 1 lists, 0 code", embed.Footer.Text)
}

func TestArticleEmbed(t *testing.T) {
	store, err := blog.LoadDefault()
	require.NoError(t, err)

	a, ok := store.ByID("architecture-councils")
	require.True(t, ok)

	body, more := articleBody(a)
	assert.False(t, more)

	embed := articleEmbed(a, body)
	assert.Equal(t, a.Title, embed.Title)
	assert.Contains(t, embed.Description, "__Decision records__")
	require.NotNil(t, embed.Footer)
	assert.Contains(t, embed.Footer.Text, a.Date)
}

func newTestBot() *botState {
	cfg, _ := configFromBytes([]byte(`{"foundation": {"features": {"blog": {"enabled": true}}}}`))
	return &botState{
		cfg:   cfg,
		flags: foundation.NewFlags(cfg.Foundation.Features),
		log:   zap.NewNop(),
	}
}

func subcommand(group, name string, opts ...discord.CommandInteractionOption) discord.CommandInteractionOptions {
	return discord.CommandInteractionOptions{{
		Name: group,
		Options: discord.CommandInteractionOptions{{
			Name:    name,
			Options: opts,
		}},
	}}
}

func TestApplyConfigFeatures(t *testing.T) {
	b := newTestBot()

	embed, changed := b.applyConfig(discord.NullGuildID, subcommand("feature", "disable",
		discord.CommandInteractionOption{Name: "name", Value: []byte(`"blog"`)}))
	assert.True(t, changed)
	assert.Equal(t, "Success", embed.Title)
	assert.False(t, b.flags.Enabled("blog"))

	embed, changed = b.applyConfig(discord.NullGuildID, subcommand("feature", "list"))
	assert.False(t, changed)
	assert.Equal(t, "`blog`: disabled", embed.Description)

	embed, changed = b.applyConfig(discord.NullGuildID, subcommand("feature", "enable",
		discord.CommandInteractionOption{Name: "name", Value: []byte(`"  "`)}))
	assert.False(t, changed)
	assert.Equal(t, "Error", embed.Title)
}

func TestApplyConfigUsers(t *testing.T) {
	b := newTestBot()
	user := discord.CommandInteractionOption{Name: "user", Value: []byte(`"42"`)}

	_, changed := b.applyConfig(discord.NullGuildID, subcommand("user", "ignore", user))
	assert.True(t, changed)
	assert.Contains(t, b.cfg.Blacklist, discord.Snowflake(42))

	embed, changed := b.applyConfig(discord.NullGuildID, subcommand("user", "ignore", user))
	assert.False(t, changed)
	assert.Equal(t, "Error", embed.Title)

	embed, _ = b.applyConfig(discord.NullGuildID, subcommand("user", "ignorelist"))
	assert.Equal(t, "<@!42>", embed.Description)

	_, changed = b.applyConfig(discord.NullGuildID, subcommand("user", "unignore", user))
	assert.True(t, changed)
	assert.Empty(t, b.cfg.Blacklist)

	embed, changed = b.applyConfig(discord.NullGuildID, nil)
	assert.False(t, changed)
	assert.Equal(t, "Error", embed.Title)
}

func TestWithDefaults(t *testing.T) {
	features := withDefaults(map[string]foundation.Feature{
		"parse": {Enabled: false},
		"voice": {Enabled: true},
	})

	assert.True(t, features["blog"].Enabled)
	assert.True(t, features["pages"].Enabled)
	assert.False(t, features["parse"].Enabled)
	assert.True(t, features["voice"].Enabled)
}

func TestCanConfigure(t *testing.T) {
	b := newTestBot()

	assert.False(t, b.canConfigure(nil))
	assert.True(t, b.canConfigure(&discord.Member{}))

	b.cfg.Permissions.Config[discord.Snowflake(7)] = struct{}{}
	assert.False(t, b.canConfigure(&discord.Member{}))
	assert.True(t, b.canConfigure(&discord.Member{RoleIDs: []discord.RoleID{7}}))
}
