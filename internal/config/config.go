// Package config loads the YAML startup file naming AIML sources,
// the substitution table, bot predicates, persistence options, and
// front-end options (metrics listener, Telegram token variable)
// (SPEC_FULL.md §4.7). It mirrors the teacher's own
// config-loading shape (engine/bot.go's Config) generalized from a single
// Debug flag to the full set of options a Kernel needs at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the parsed startup file.
type Config struct {
	// Debug gates verbose fmt.Fprintf(os.Stderr, ...) tracing throughout
	// the Kernel and interpreter.
	Debug bool `yaml:"debug"`

	// AIMLPaths are glob patterns naming .aiml files or directories to
	// load at startup.
	AIMLPaths []string `yaml:"aiml_paths"`

	// SubstitutionFile is the INI file loaded by internal/wordsub.LoadINI.
	SubstitutionFile string `yaml:"substitution_file"`

	// BotPredicates seeds the global bot predicate table ("name" is
	// conventional and drives BOT_NAME resolution).
	BotPredicates map[string]string `yaml:"bot_predicates"`

	// EnableUnderscore gates the high-priority '_' wildcard. Defaults to
	// false; real-world AIML sets misbehave with it enabled (spec.md §9).
	EnableUnderscore bool `yaml:"enable_underscore"`

	// Persistence configures session durability.
	Persistence struct {
		// Mode is "memory" (default) or "bolt".
		Mode string `yaml:"mode"`
		// BoltPath is the database file used when Mode == "bolt".
		BoltPath string `yaml:"bolt_path"`
	} `yaml:"persistence"`

	// BrainFile, if set, is loaded at startup (Kernel.RestoreBrain) instead
	// of re-parsing AIMLPaths. When it does not exist yet, AIMLPaths are
	// parsed and the result is written to it (Kernel.SaveBrain) right after
	// loading, before the front end starts.
	BrainFile string `yaml:"brain_file"`

	// Metrics configures the optional Prometheus /metrics listener.
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`

	// Telegram configures the optional Telegram bridge front end
	// (cmd/telegram). The token itself is never stored here: TokenEnv names
	// the environment variable it is read from, so bot tokens never need
	// to be committed to a config file.
	Telegram struct {
		TokenEnv string `yaml:"token_env"`
	} `yaml:"telegram"`
}

// Load reads and parses a YAML config file. A missing or malformed file is
// a plain fmt.Errorf-wrapped error — spec.md §7 names no separate
// "ConfigError" kind, and a bad config is reported before any Kernel
// exists.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// TelegramToken resolves the Telegram bot token from the environment
// variable named by Telegram.TokenEnv, or "" if unset.
func (c *Config) TelegramToken() string {
	if c.Telegram.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.Telegram.TokenEnv)
}
