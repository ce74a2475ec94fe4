//nolint:containedctx // -
package interaction

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Responder answers a single interaction on the platform.
type Responder interface {
	// CreateMessage answers the interaction with a new message.
	CreateMessage(ctx context.Context, msg discord.MessageCreate) error
	// UpdateMessage answers a component interaction by editing the message it belongs to.
	UpdateMessage(ctx context.Context, msg discord.MessageUpdate) error
	// GetResponse fetches the message created by CreateMessage.
	GetResponse(ctx context.Context) (*discord.Message, error)
}

// Context is the request-scoped handle given to handlers.
// It is tied to exactly one interaction and lives until the handler returns.
type Context struct {
	ctx         context.Context
	interaction *Interaction
	responder   Responder
	responded   bool
}

// NewContext wraps an interaction and its responder.
func NewContext(ctx context.Context, interaction *Interaction, responder Responder) *Context {
	return &Context{
		ctx:         ctx,
		interaction: interaction,
		responder:   responder,
	}
}

// Context returns the standard context.Context of the interaction.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Interaction returns the interaction being handled.
func (c *Context) Interaction() *Interaction {
	return c.interaction
}

// UserID returns the ID of the invoking member.
func (c *Context) UserID() snowflake.ID {
	return c.interaction.User.ID
}

// Responded reports whether the interaction has been answered.
func (c *Context) Responded() bool {
	return c.responded
}

// Reply answers the interaction with a message.
func (c *Context) Reply(msg discord.MessageCreate) error {
	if err := c.responder.CreateMessage(c.ctx, msg); err != nil {
		return err
	}
	c.responded = true
	return nil
}

// Ephemeral answers the interaction with a message only the invoker can see.
func (c *Context) Ephemeral(content string) error {
	return c.Reply(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build())
}

// Update edits the message a component belongs to as the interaction response.
func (c *Context) Update(msg discord.MessageUpdate) error {
	if err := c.responder.UpdateMessage(c.ctx, msg); err != nil {
		return err
	}
	c.responded = true
	return nil
}

// Response fetches the message posted by Reply.
func (c *Context) Response() (*discord.Message, error) {
	return c.responder.GetResponse(c.ctx)
}
