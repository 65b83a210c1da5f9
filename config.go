package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// serverConfig is the boot configuration, read from an optional TOML file.
// Zero values fall back to the compiled defaults so a missing file or a
// partial file both work.
type serverConfig struct {
	Addr      string        `toml:"addr"`
	ClientDir string        `toml:"client_dir"`
	Seed      string        `toml:"seed"`
	Tier      string        `toml:"default_tier"`
	Logging   loggingConfig `toml:"logging"`
}

type loggingConfig struct {
	Sinks       []string `toml:"sinks"`
	JSONPath    string   `toml:"json_path"`
	MinSeverity string   `toml:"min_severity"`
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Addr:      ":8080",
		ClientDir: "client",
		Seed:      defaultMatchSeed,
		Tier:      string(TierMedium),
		Logging: loggingConfig{
			Sinks: []string{"console"},
		},
	}
}

// loadServerConfig reads the TOML file at path on top of the defaults. A
// missing file is not an error; a malformed one is.
func loadServerConfig(path string) (serverConfig, error) {
	cfg := defaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.normalized(), nil
}

func (cfg serverConfig) normalized() serverConfig {
	normalized := cfg
	defaults := defaultServerConfig()
	if normalized.Addr == "" {
		normalized.Addr = defaults.Addr
	}
	if normalized.ClientDir == "" {
		normalized.ClientDir = defaults.ClientDir
	}
	if normalized.Seed == "" {
		normalized.Seed = defaults.Seed
	}
	if _, ok := parseTier(normalized.Tier); !ok {
		normalized.Tier = defaults.Tier
	}
	if len(normalized.Logging.Sinks) == 0 {
		normalized.Logging.Sinks = defaults.Logging.Sinks
	}
	return normalized
}
