package interaction_test

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		options  []interaction.Option
		wantPath string
		want     interaction.Options
	}{
		{
			name:     "no options",
			wantPath: "",
			want:     interaction.Options{},
		},
		{
			name: "top level arguments",
			options: []interaction.Option{
				{Name: "question", Type: discord.ApplicationCommandOptionTypeString, Value: "Ship it?"},
			},
			wantPath: "",
			want:     interaction.Options{"question": "Ship it?"},
		},
		{
			name: "subcommand",
			options: []interaction.Option{{
				Name: "give",
				Type: discord.ApplicationCommandOptionTypeSubCommand,
				Options: []interaction.Option{
					{Name: "user", Type: discord.ApplicationCommandOptionTypeUser, Value: snowflake.ID(2)},
					{Name: "amount", Type: discord.ApplicationCommandOptionTypeInt, Value: 3},
				},
			}},
			wantPath: "give",
			want:     interaction.Options{"user": snowflake.ID(2), "amount": 3},
		},
		{
			name: "subcommand group",
			options: []interaction.Option{{
				Name: "admin",
				Type: discord.ApplicationCommandOptionTypeSubCommandGroup,
				Options: []interaction.Option{{
					Name:    "reset",
					Type:    discord.ApplicationCommandOptionTypeSubCommand,
					Options: []interaction.Option{{Name: "user", Value: "5"}},
				}},
			}},
			wantPath: "admin reset",
			want:     interaction.Options{"user": "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, values := interaction.FlattenOptions(tt.options)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.want, values)
		})
	}
}

func TestOptionsAccessors(t *testing.T) {
	t.Parallel()

	opts := interaction.Options{
		"text":      "hello",
		"blank":     "   ",
		"int":       4,
		"int64":     int64(5),
		"float":     float64(6),
		"numeric":   "7",
		"user":      snowflake.ID(8),
		"user_text": "9",
		"raw_id":    uint64(10),
	}

	value, ok := opts.String("text")
	assert.True(t, ok)
	assert.Equal(t, "hello", value)
	assert.Equal(t, "fallback", opts.StringOr("blank", "fallback"))
	assert.Equal(t, "fallback", opts.StringOr("missing", "fallback"))

	for name, want := range map[string]int{"int": 4, "int64": 5, "float": 6, "numeric": 7} {
		got, ok := opts.Int(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	assert.Equal(t, 1, opts.IntOr("missing", 1))
	_, ok = opts.Int("text")
	assert.False(t, ok)

	for name, want := range map[string]snowflake.ID{"user": 8, "user_text": 9, "raw_id": 10} {
		got, ok := opts.Snowflake(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok = opts.Snowflake("missing")
	assert.False(t, ok)
}

func TestHasRole(t *testing.T) {
	t.Parallel()

	inter := &interaction.Interaction{RoleIDs: []snowflake.ID{1, 2}}
	assert.True(t, inter.HasRole(3, 2))
	assert.False(t, inter.HasRole(3))
	assert.False(t, (&interaction.Interaction{}).HasRole(1))
}

func TestComponentRoundTrip(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
		Poll int64  `json:"poll"`
	}

	customID, err := interaction.EncodeCustomID(payload{Name: "vote", Poll: 12})
	require.NoError(t, err)

	data := interaction.ParseComponent(customID, []string{"34"})
	assert.Equal(t, "vote", data.Name)
	assert.Equal(t, []string{"34"}, data.Values)

	var decoded payload
	require.NoError(t, data.Decode(&decoded))
	assert.Equal(t, int64(12), decoded.Poll)
}

func TestComponentErrors(t *testing.T) {
	t.Parallel()

	_, err := interaction.EncodeCustomID(map[string]string{"name": strings.Repeat("x", 120)})
	require.ErrorIs(t, err, interaction.ErrCustomIDTooLong)

	data := interaction.ParseComponent("{broken", nil)
	assert.Empty(t, data.Name)

	var target struct{}
	require.ErrorIs(t, data.Decode(&target), interaction.ErrValidation)
}
