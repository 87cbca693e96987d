package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiscordGophers/dr-folio/foundation"
)

func TestSnowflakeLookup(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    snowflakeLookup
		encoded string
		wantErr bool
	}{
		{
			name:    "sorted on encode",
			input:   `["1337","42","777"]`,
			want:    snowflakeLookup{1337: {}, 42: {}, 777: {}},
			encoded: `["42","777","1337"]`,
		},
		{
			name:    "duplicates collapse",
			input:   `["7","7"]`,
			want:    snowflakeLookup{7: {}},
			encoded: `["7"]`,
		},
		{
			name:    "empty",
			input:   `[]`,
			want:    snowflakeLookup{},
			encoded: `[]`,
		},
		{
			name:    "not a snowflake",
			input:   `["gopher"]`,
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lookup := make(snowflakeLookup)
			err := json.Unmarshal([]byte(c.input), &lookup)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, lookup)

			d, err := json.Marshal(lookup)
			require.NoError(t, err)
			assert.Equal(t, c.encoded, string(d))
		})
	}
}

func TestSaveConfigPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := configFromBytes([]byte(`{}`))
	require.NoError(t, err)
	cfg.Permissions.Config[discord.Snowflake(777)] = struct{}{}
	cfg.Permissions.Config[discord.Snowflake(42)] = struct{}{}

	require.NoError(t, saveConfig(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"42",`)

	loaded, err := config(path)
	require.NoError(t, err)
	assert.Equal(t, snowflakeLookup{42: {}, 777: {}}, loaded.Permissions.Config)

	b := &botState{cfg: loaded}
	assert.True(t, b.canConfigure(&discord.Member{RoleIDs: []discord.RoleID{777}}))
	assert.False(t, b.canConfigure(&discord.Member{RoleIDs: []discord.RoleID{1}}))
}

func TestConfigFromBytes(t *testing.T) {
	input := []byte(`
{
	"token": "secret",
	"sitemap": "https://example.com/sitemap.xml",
	"permissions": {
		"config": [
			"777"
		]
	},
	"blacklist": ["1337"],
	"foundation": {
		"metadata": {
			"siteName": "Portfolio"
		},
		"features": {
			"blog": {"enabled": true, "label": "Blog"},
			"parse": {"enabled": false}
		}
	}
}
`)

	config, err := configFromBytes(input)
	assert.NoError(t, err)

	expected := configuration{
		Token:   "secret",
		Sitemap: "https://example.com/sitemap.xml",
		Permissions: commandPermissions{
			Config: snowflakeLookup{777: {}},
		},
		Blacklist: snowflakeLookup{1337: {}},
		Foundation: foundation.Config{
			Metadata: foundation.Metadata{SiteName: "Portfolio"},
			Features: map[string]foundation.Feature{
				"blog":  {Enabled: true, Label: "Blog"},
				"parse": {Enabled: false},
			},
		},
	}

	assert.Equal(t, expected, config)
}

func TestConfigFromBytesDefaults(t *testing.T) {
	config, err := configFromBytes([]byte(`{}`))
	require.NoError(t, err)

	assert.NotNil(t, config.Blacklist)
	assert.NotNil(t, config.Permissions.Config)
	assert.NotNil(t, config.Foundation.Features)

	_, err = configFromBytes([]byte(`{"blacklist": 12}`))
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := configFromBytes([]byte(`{"blacklist": ["42"]}`))
	require.NoError(t, err)
	cfg.Foundation.Features["blog"] = foundation.Feature{Enabled: true}

	require.NoError(t, saveConfig(path, cfg))

	loaded, err := config(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = config(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	cfg := configuration{Token: "from-file"}

	t.Setenv("FOLIO_TOKEN", "")
	assert.Equal(t, "from-file", cfg.token())

	t.Setenv("FOLIO_TOKEN", "from-env")
	assert.Equal(t, "from-env", cfg.token())
}
