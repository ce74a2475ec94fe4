package bottest

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/interaction"
)

// Channel is the channel test interactions come from.
const Channel snowflake.ID = 500

// Command builds a slash command interaction with one subcommand.
func Command(name, subcommand string, userID snowflake.ID, args map[string]any) *interaction.Interaction {
	leaves := make([]interaction.Option, 0, len(args))
	for key, value := range args {
		leaves = append(leaves, interaction.Option{Name: key, Value: value})
	}

	options := leaves
	if subcommand != "" {
		options = []interaction.Option{{
			Name:    subcommand,
			Type:    discord.ApplicationCommandOptionTypeSubCommand,
			Options: leaves,
		}}
	}

	return &interaction.Interaction{
		Kind:        interaction.KindCommand,
		ID:          snowflake.ID(900) + userID,
		ChannelID:   Channel,
		User:        discord.User{ID: userID},
		CommandName: name,
		Options:     options,
	}
}

// Component builds a component interaction.
func Component(customID string, values []string, userID snowflake.ID) *interaction.Interaction {
	return &interaction.Interaction{
		Kind:      interaction.KindComponent,
		ID:        snowflake.ID(700) + userID,
		ChannelID: Channel,
		User:      discord.User{ID: userID},
		CustomID:  customID,
		Values:    values,
	}
}

// WithRoles sets the roles held by the invoking member.
func WithRoles(inter *interaction.Interaction, roles ...snowflake.ID) *interaction.Interaction {
	inter.RoleIDs = roles
	return inter
}
