package bot

import (
	"context"
	"runtime/debug"

	"github.com/bytedance/sonic"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"go.uber.org/zap"
)

// handleMessageCreate feeds guild messages to the reputation engine and the greeter.
func (b *Bot) handleMessageCreate(event *events.GuildMessageCreate) {
	msg := event.Message
	if !b.inGuild(event.GuildID) {
		return
	}

	b.spawn("message", func(ctx context.Context) {
		if err := b.reputation.HandleMessage(ctx, &msg); err != nil {
			b.logger.Error("Failed to handle message",
				zap.Uint64("messageID", uint64(msg.ID)),
				zap.Uint64("channelID", uint64(msg.ChannelID)),
				zap.Error(err))
		}
	})

	if msg.Type == discord.MessageTypeUserJoin && b.greeter.Enabled() {
		b.spawn("greeter", func(ctx context.Context) {
			if err := b.greeter.HandleMessage(ctx, &msg); err != nil && ctx.Err() == nil {
				b.logger.Error("Failed to greet member",
					zap.Uint64("messageID", uint64(msg.ID)),
					zap.Error(err))
			}
		})
	}
}

// handleReactionAdd feeds reactions to the reputation engine.
func (b *Bot) handleReactionAdd(event *events.GuildMessageReactionAdd) {
	if !b.inGuild(event.GuildID) {
		return
	}

	reaction := &platform.ReactionEvent{
		GuildID:   event.GuildID,
		ChannelID: event.ChannelID,
		MessageID: event.MessageID,
		UserID:    event.UserID,
		UserIsBot: event.Member.User.Bot,
		Emoji:     event.Emoji,
	}

	b.spawn("reaction", func(ctx context.Context) {
		if err := b.reputation.HandleReaction(ctx, reaction); err != nil {
			b.logger.Error("Failed to handle reaction",
				zap.Uint64("messageID", uint64(reaction.MessageID)),
				zap.Uint64("userID", uint64(reaction.UserID)),
				zap.Error(err))
		}
	})
}

// handleApplicationCommandInteraction converts a slash command and dispatches it.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	data, ok := event.Data.(discord.SlashCommandInteractionData)
	if !ok {
		return
	}

	inter := &interaction.Interaction{
		Kind:        interaction.KindCommand,
		ID:          event.ID(),
		ChannelID:   event.ChannelID(),
		User:        event.User(),
		CommandName: data.CommandName(),
		Options:     b.commandOptions(data),
	}
	if guildID := event.GuildID(); guildID != nil {
		inter.GuildID = *guildID
	}
	if member := event.Member(); member != nil {
		inter.RoleIDs = member.RoleIDs
	}

	res := &responder{client: b.client, event: event}
	b.spawn("command", func(ctx context.Context) {
		b.dispatcher.Dispatch(ctx, inter, res)
	})
}

// handleComponentInteraction converts a button or select callback and dispatches it.
func (b *Bot) handleComponentInteraction(event *events.ComponentInteractionCreate) {
	var values []string
	if selectData, ok := event.Data.(discord.StringSelectMenuInteractionData); ok {
		values = selectData.Values
	}

	msg := event.Message
	inter := &interaction.Interaction{
		Kind:      interaction.KindComponent,
		ID:        event.ID(),
		ChannelID: event.ChannelID(),
		User:      event.User(),
		CustomID:  event.Data.CustomID(),
		Values:    values,
		Message:   &msg,
	}
	if guildID := event.GuildID(); guildID != nil {
		inter.GuildID = *guildID
	}
	if member := event.Member(); member != nil {
		inter.RoleIDs = member.RoleIDs
	}

	res := &responder{client: b.client, event: event, update: event.UpdateMessage}
	b.spawn("component", func(ctx context.Context) {
		b.dispatcher.Dispatch(ctx, inter, res)
	})
}

// commandOptions rebuilds the option tree of a slash command.
func (b *Bot) commandOptions(data discord.SlashCommandInteractionData) []interaction.Option {
	leaves := make([]interaction.Option, 0, len(data.Options))
	for name, option := range data.Options {
		var value any
		switch option.Type {
		case discord.ApplicationCommandOptionTypeUser,
			discord.ApplicationCommandOptionTypeChannel,
			discord.ApplicationCommandOptionTypeRole,
			discord.ApplicationCommandOptionTypeMentionable:
			value = data.Snowflake(name)
		case discord.ApplicationCommandOptionTypeInt:
			value = data.Int(name)
		default:
			if err := sonic.Unmarshal(option.Value, &value); err != nil {
				b.logger.Warn("Failed to decode command option",
					zap.String("option", name),
					zap.Error(err))
				continue
			}
		}

		leaves = append(leaves, interaction.Option{Name: name, Type: option.Type, Value: value})
	}

	if data.SubCommandName == nil {
		return leaves
	}

	options := []interaction.Option{{
		Name:    *data.SubCommandName,
		Type:    discord.ApplicationCommandOptionTypeSubCommand,
		Options: leaves,
	}}
	if data.SubCommandGroupName != nil {
		options = []interaction.Option{{
			Name:    *data.SubCommandGroupName,
			Type:    discord.ApplicationCommandOptionTypeSubCommandGroup,
			Options: options,
		}}
	}

	return options
}

// spawn runs an event handler on its own goroutine, tied to the bot's lifetime.
func (b *Bot) spawn(kind string, fn func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in event handler",
					zap.String("kind", kind),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
			}
		}()

		fn(b.ctx)
	}()
}
