package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/robalyx/leo/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
version = 1

[postgresql]
host = "db"
user = "leo"
db_name = "leo"

[discord]
token = "secret"
guild_id = 123

[reputation]
points_name = "karma"
max_amount = 3
unlimited_roles = [10, 11]

[reputation.plus_one_emoji]
id = 42
name = "plusone"

[greeter.emoji]
name = "👋"
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.PostgreSQL.Host)
	assert.Equal(t, 5432, cfg.PostgreSQL.Port)
	assert.Equal(t, "secret", cfg.Discord.Token)
	assert.EqualValues(t, 123, cfg.Discord.GuildID)
	assert.Equal(t, "karma", cfg.Reputation.PointsName)
	assert.Equal(t, 3, cfg.Reputation.MaxAmount)
	assert.Equal(t, 10, cfg.Reputation.PageSize)
	assert.Equal(t, []uint64{10, 11}, cfg.Reputation.UnlimitedRoles)
	assert.EqualValues(t, 42, cfg.Reputation.PlusOneEmoji.ID)
	assert.True(t, cfg.Greeter.Emoji.IsSet())
	assert.Equal(t, 30, cfg.Greeter.MinDelay)
	assert.Equal(t, 130, cfg.Greeter.MaxDelay)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "info", cfg.Debug.LogLevel)
}

func TestLoadConfigVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "missing", content: `[discord]` + "\n" + `token = "x"`, wantErr: config.ErrConfigVersionMissing},
		{name: "mismatch", content: `version = 99`, wantErr: config.ErrConfigVersionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEmoji(t *testing.T) {
	t.Parallel()

	custom := config.Emoji{ID: 42, Name: "plus"}
	assert.True(t, custom.IsSet())
	assert.True(t, custom.Matches(42, "other"))
	assert.False(t, custom.Matches(7, "plus"))
	assert.Equal(t, "plus:42", custom.Reaction())

	unicode := config.Emoji{Name: "👋"}
	assert.True(t, unicode.Matches(0, "👋"))
	assert.False(t, unicode.Matches(0, "👍"))
	assert.Equal(t, "👋", unicode.Reaction())

	assert.False(t, config.Emoji{}.IsSet())
	assert.False(t, config.Emoji{}.Matches(0, ""))
}
