package bot

import (
	"context"
	"errors"
	"net/http"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/platform"
)

// reactionPageSize is the largest page the reactions endpoint returns.
const reactionPageSize = 100

// messenger implements platform.Messenger on the Discord REST API.
type messenger struct {
	client bot.Client
}

var _ platform.Messenger = (*messenger)(nil)

func (m *messenger) SendMessage(
	ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate,
) (*discord.Message, error) {
	sent, err := m.client.Rest().CreateMessage(channelID, msg, rest.WithCtx(ctx))
	return sent, translate(err)
}

func (m *messenger) EditMessage(
	ctx context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate,
) (*discord.Message, error) {
	edited, err := m.client.Rest().UpdateMessage(channelID, messageID, msg, rest.WithCtx(ctx))
	return edited, translate(err)
}

func (m *messenger) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	return translate(m.client.Rest().DeleteMessage(channelID, messageID, rest.WithCtx(ctx)))
}

func (m *messenger) GetMessage(ctx context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	msg, err := m.client.Rest().GetMessage(channelID, messageID, rest.WithCtx(ctx))
	return msg, translate(err)
}

func (m *messenger) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	return translate(m.client.Rest().AddReaction(channelID, messageID, emoji, rest.WithCtx(ctx)))
}

func (m *messenger) ReactionUsers(
	ctx context.Context, channelID, messageID snowflake.ID, emoji string,
) ([]discord.User, error) {
	users, err := m.client.Rest().GetReactions(
		channelID, messageID, emoji, discord.MessageReactionTypeNormal, 0, reactionPageSize, rest.WithCtx(ctx),
	)
	return users, translate(err)
}

// translate maps a missing resource to platform.ErrMessageNotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var restErr *rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return errors.Join(platform.ErrMessageNotFound, err)
	}
	return err
}
