package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesFullConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golem.yaml")
	contents := `
debug: true
aiml_paths:
  - "./aiml/*.aiml"
substitution_file: "./subs.ini"
bot_predicates:
  name: Golem
enable_underscore: true
persistence:
  mode: bolt
  bolt_path: "./sessions.db"
brain_file: "./brain.gob"
metrics:
  enabled: true
  addr: ":9090"
telegram:
  token_env: "TELEGRAM_BOT_TOKEN"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"./aiml/*.aiml"}, cfg.AIMLPaths)
	assert.Equal(t, "./subs.ini", cfg.SubstitutionFile)
	assert.Equal(t, "Golem", cfg.BotPredicates["name"])
	assert.True(t, cfg.EnableUnderscore)
	assert.Equal(t, "bolt", cfg.Persistence.Mode)
	assert.Equal(t, "./sessions.db", cfg.Persistence.BoltPath)
	assert.Equal(t, "./brain.gob", cfg.BrainFile)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "TELEGRAM_BOT_TOKEN", cfg.Telegram.TokenEnv)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTelegramTokenReadsNamedEnvVar(t *testing.T) {
	t.Setenv("MY_BOT_TOKEN", "secret-value")
	cfg := &Config{}
	cfg.Telegram.TokenEnv = "MY_BOT_TOKEN"
	assert.Equal(t, "secret-value", cfg.TelegramToken())
}

func TestTelegramTokenEmptyWhenUnset(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "", cfg.TelegramToken())
}
