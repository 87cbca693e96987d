package main

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/pkg/errors"

	"github.com/DiscordGophers/dr-folio/foundation"
)

type configuration struct {
	Token       string             `json:"token,omitempty"`
	Sitemap     string             `json:"sitemap,omitempty"`
	Permissions commandPermissions `json:"permissions"`
	Blacklist   snowflakeLookup    `json:"blacklist"`
	Foundation  foundation.Config  `json:"foundation"`
}

type commandPermissions struct {
	// Config holds the roles allowed to run /config, in addition to
	// administrators.
	Config snowflakeLookup `json:"config"`
}

// snowflakeLookup is a set of snowflakes stored as a sorted JSON array.
type snowflakeLookup map[discord.Snowflake]struct{}

func (l snowflakeLookup) MarshalJSON() ([]byte, error) {
	ids := make([]discord.Snowflake, 0, len(l))
	for id := range l {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return json.Marshal(out)
}

func (l *snowflakeLookup) UnmarshalJSON(b []byte) error {
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}

	if *l == nil {
		*l = make(snowflakeLookup, len(ids))
	}
	for _, s := range ids {
		id, err := discord.ParseSnowflake(s)
		if err != nil {
			return errors.Wrapf(err, "invalid snowflake %q", s)
		}
		(*l)[id] = struct{}{}
	}
	return nil
}

func configFromBytes(b []byte) (configuration, error) {
	var cfg configuration
	if err := json.Unmarshal(b, &cfg); err != nil {
		return configuration{}, errors.Wrap(err, "could not parse config")
	}

	if cfg.Blacklist == nil {
		cfg.Blacklist = snowflakeLookup{}
	}
	if cfg.Permissions.Config == nil {
		cfg.Permissions.Config = snowflakeLookup{}
	}
	if cfg.Foundation.Features == nil {
		cfg.Foundation.Features = map[string]foundation.Feature{}
	}
	return cfg, nil
}

func config(path string) (configuration, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return configuration{}, errors.Wrap(err, "could not open config")
	}
	return configFromBytes(fileBytes)
}

// FOLIO_TOKEN takes precedence over the configured token.
func (c configuration) token() string {
	if token := os.Getenv("FOLIO_TOKEN"); token != "" {
		return token
	}
	return c.Token
}

func saveConfig(path string, cfg configuration) error {
	b, err := json.MarshalIndent(cfg, "", "\t")
	if err != nil {
		return errors.Wrap(err, "could not encode config")
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return errors.Wrap(err, "could not write config")
	}
	return nil
}
