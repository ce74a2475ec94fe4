package bot

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/interaction"
)

var errUpdateUnsupported = errors.New("interaction has no message to update")

// interactionEvent is the part of a disgo interaction event used to answer it.
type interactionEvent interface {
	ApplicationID() snowflake.ID
	Token() string
	CreateMessage(messageCreate discord.MessageCreate, opts ...rest.RequestOpt) error
}

// responder answers one interaction through disgo.
type responder struct {
	client bot.Client
	event  interactionEvent
	update func(discord.MessageUpdate, ...rest.RequestOpt) error
}

var _ interaction.Responder = (*responder)(nil)

func (r *responder) CreateMessage(ctx context.Context, msg discord.MessageCreate) error {
	return r.event.CreateMessage(msg, rest.WithCtx(ctx))
}

func (r *responder) UpdateMessage(ctx context.Context, msg discord.MessageUpdate) error {
	if r.update == nil {
		return errUpdateUnsupported
	}
	return r.update(msg, rest.WithCtx(ctx))
}

func (r *responder) GetResponse(ctx context.Context) (*discord.Message, error) {
	return r.client.Rest().GetInteractionResponse(r.event.ApplicationID(), r.event.Token(), rest.WithCtx(ctx))
}
