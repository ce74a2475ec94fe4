// Package greeter welcomes new members by reacting to their join message
// when nobody else has done so after a short while.
package greeter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/jonboulle/clockwork"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"github.com/robalyx/leo/internal/bot/utils"
	"github.com/robalyx/leo/internal/metrics"
	"github.com/robalyx/leo/internal/setup/config"
	"go.uber.org/zap"
)

// Handler reacts to member join messages.
type Handler struct {
	emoji     config.Emoji
	minDelay  time.Duration
	maxDelay  time.Duration
	messenger platform.Messenger
	clock     clockwork.Clock
	logger    *zap.Logger
}

// New creates a greeter.
func New(cfg *config.Greeter, messenger platform.Messenger, clock clockwork.Clock, logger *zap.Logger) *Handler {
	return &Handler{
		emoji:     cfg.Emoji,
		minDelay:  time.Duration(cfg.MinDelay) * time.Second,
		maxDelay:  time.Duration(cfg.MaxDelay) * time.Second,
		messenger: messenger,
		clock:     clock,
		logger:    logger.Named("greeter"),
	}
}

// Enabled reports whether a greeting emoji is configured.
func (h *Handler) Enabled() bool {
	return h.emoji.IsSet()
}

// HandleMessage waits a random delay after a join message and adds the greeting
// reaction if nobody has reacted with it yet. It blocks until done or ctx ends.
func (h *Handler) HandleMessage(ctx context.Context, msg *discord.Message) error {
	if !h.Enabled() || msg.Type != discord.MessageTypeUserJoin {
		return nil
	}

	delay := utils.RandomDuration(h.minDelay, h.maxDelay)
	select {
	case <-h.clock.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	emoji := h.emoji.Reaction()

	users, err := h.messenger.ReactionUsers(ctx, msg.ChannelID, msg.ID, emoji)
	if errors.Is(err, platform.ErrMessageNotFound) {
		metrics.GreetingsTotal.WithLabelValues("gone").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list greeting reactions: %w", err)
	}

	if len(users) > 0 {
		metrics.GreetingsTotal.WithLabelValues("greeted").Inc()
		return nil
	}

	if err := h.messenger.AddReaction(ctx, msg.ChannelID, msg.ID, emoji); err != nil {
		if errors.Is(err, platform.ErrMessageNotFound) {
			metrics.GreetingsTotal.WithLabelValues("gone").Inc()
			return nil
		}
		return fmt.Errorf("failed to add greeting reaction: %w", err)
	}

	metrics.GreetingsTotal.WithLabelValues("reacted").Inc()
	h.logger.Debug("Greeted new member",
		zap.Uint64("userID", uint64(msg.Author.ID)),
		zap.Duration("delay", delay))

	return nil
}
