// Package platform describes what the feature handlers need from the chat platform.
package platform

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// ErrMessageNotFound is returned when a referenced message no longer exists.
var ErrMessageNotFound = errors.New("message not found")

// Messenger posts, edits and inspects channel messages outside of an interaction response.
type Messenger interface {
	SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (*discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate) (*discord.Message, error)
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error
	GetMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error)
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	// ReactionUsers lists the users that reacted to a message with the emoji.
	ReactionUsers(ctx context.Context, channelID, messageID snowflake.ID, emoji string) ([]discord.User, error)
}

// ReactionEvent is a reaction added to a guild message.
type ReactionEvent struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	UserIsBot bool
	Emoji     discord.PartialEmoji
}

// EmojiID returns the custom emoji ID, or zero for unicode emojis.
func (e *ReactionEvent) EmojiID() uint64 {
	if e.Emoji.ID == nil {
		return 0
	}
	return uint64(*e.Emoji.ID)
}

// EmojiName returns the emoji name, or an empty string when unknown.
func (e *ReactionEvent) EmojiName() string {
	if e.Emoji.Name == nil {
		return ""
	}
	return *e.Emoji.Name
}
