package woolinator

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woolinator/bot/internal/domain/reminders"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
[log]
level = "debug"
format = "json"

[bot]
token = "from-file"
dev_guilds = [123456789012345678]

[db]
driver = "sqlite"
path = "reminders.db"

[reminders]
window = "5m"
max_horizon = "2y"
max_per_user = 10
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "from-file", cfg.Bot.Token)
	assert.Equal(t, []snowflake.ID{123456789012345678}, cfg.Bot.DevGuilds)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "reminders.db", cfg.DB.Path)

	settings, err := cfg.Reminders.Settings()
	require.NoError(t, err)
	assert.Equal(t, reminders.Settings{
		Window:              5 * time.Minute,
		MaxHorizon:          reminders.Delta{Years: 2},
		DeliveryConcurrency: 8,
		MaxPerUser:          10,
	}, settings)
	assert.Equal(t, 1024, cfg.Reminders.UserCacheSize)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("DB_PASSWORD", "hunter2")
	path := writeConfig(t, `
[bot]
token = "from-file"

[db]
password = "file-password"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Bot.Token)
	assert.Equal(t, "hunter2", cfg.DB.Password)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 10*time.Minute, cfg.Reminders.Window.Duration)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
[db]
driver = "mysql"

[reminders]
window = "0s"
max_horizon = "forever"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	for _, want := range []string{"db.driver", "reminders.window", "reminders.max_horizon"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadConfigWithoutToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
[db]
driver = "sqlite"
path = ":memory:"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err, "store commands run without a bot token")
	assert.ErrorContains(t, cfg.ValidateBot(), "bot.token")

	cfg.Bot.Token = "abc"
	assert.NoError(t, cfg.ValidateBot())
}

func TestLoadConfigSubSecondWindow(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "abc"

[reminders]
window = "500ms"
`)

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "reminders.window must be at least 1s")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
