package reputation

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"github.com/robalyx/leo/internal/bot/utils"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/robalyx/leo/internal/metrics"
	"github.com/robalyx/leo/internal/rank"
	"go.uber.org/zap"
)

// HandleReaction credits the author of a message with one point when someone
// reacts with the plus-one emoji. Each member can grant once per message.
func (h *Handler) HandleReaction(ctx context.Context, event *platform.ReactionEvent) error {
	if event.UserIsBot || !h.cfg.PlusOneEmoji.Matches(event.EmojiID(), event.EmojiName()) {
		return nil
	}

	msg, err := h.messenger.GetMessage(ctx, event.ChannelID, event.MessageID)
	if err != nil {
		if errors.Is(err, platform.ErrMessageNotFound) {
			return nil
		}
		return fmt.Errorf("failed to fetch reacted message: %w", err)
	}

	if msg.Author.Bot || msg.Author.ID == event.UserID {
		metrics.GrantsRejectedTotal.WithLabelValues("self_or_bot").Inc()
		return nil
	}

	err = h.ledger.Grant(ctx, &types.LedgerEntry{
		RecipientID: uint64(msg.Author.ID),
		Delta:       1,
		Reason:      constants.ReactionGrantReason,
		GiverID:     uint64(event.UserID),
		ChannelID:   uint64(event.ChannelID),
		MessageID:   uint64(event.MessageID),
		Origin:      enum.EntryOriginReaction,
		CreatedAt:   h.clock.Now(),
	})
	if errors.Is(err, types.ErrDuplicateGrant) {
		metrics.GrantsRejectedTotal.WithLabelValues("duplicate").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to grant reaction %s: %w", h.cfg.PointsName, err)
	}

	metrics.GrantsTotal.WithLabelValues(enum.EntryOriginReaction.String()).Inc()
	h.logger.Debug("Granted reaction point",
		zap.Uint64("giverID", uint64(event.UserID)),
		zap.Uint64("recipientID", uint64(msg.Author.ID)),
		zap.Uint64("messageID", uint64(event.MessageID)))

	return nil
}

// HandleMessage grants one point to every user thanked in a message and replies
// with a single acknowledgement. Grants already written are kept when a later one fails.
func (h *Handler) HandleMessage(ctx context.Context, msg *discord.Message) error {
	if msg.Author.Bot || !h.triggers.Match(msg.Content) {
		return nil
	}

	recipients := thankedUsers(msg)
	if len(recipients) == 0 {
		return nil
	}

	var (
		granted []snowflake.ID
		errs    []error
	)

	reason := utils.ClampString(msg.Content, constants.MaxReasonLength)
	for _, recipient := range recipients {
		err := h.ledger.Grant(ctx, &types.LedgerEntry{
			RecipientID: uint64(recipient),
			Delta:       1,
			Reason:      reason,
			GiverID:     uint64(msg.Author.ID),
			ChannelID:   uint64(msg.ChannelID),
			MessageID:   uint64(msg.ID),
			Origin:      enum.EntryOriginMessage,
			CreatedAt:   h.clock.Now(),
		})
		if err != nil {
			h.logger.Error("Failed to grant message point",
				zap.Uint64("giverID", uint64(msg.Author.ID)),
				zap.Uint64("recipientID", uint64(recipient)),
				zap.Uint64("messageID", uint64(msg.ID)),
				zap.Int("granted", len(granted)),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("recipient %d: %w", recipient, err))
			continue
		}

		metrics.GrantsTotal.WithLabelValues(enum.EntryOriginMessage.String()).Inc()
		granted = append(granted, recipient)
	}

	if len(granted) == 0 {
		return errors.Join(errs...)
	}

	entries, err := h.ledger.Rank(ctx)
	if err != nil {
		return errors.Join(append(errs, fmt.Errorf("failed to load rank view: %w", err))...)
	}

	standings := make([]*types.RankEntry, len(granted))
	for i, recipient := range granted {
		standings[i] = rank.Of(entries, uint64(recipient))
	}

	_, err = h.messenger.SendMessage(ctx, msg.ChannelID, discord.NewMessageCreateBuilder().
		SetContent(h.format.Grants(uint64(msg.Author.ID), 1, standings)).
		SetMessageReferenceByID(msg.ID).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build())
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to acknowledge grants: %w", err))
	}

	return errors.Join(errs...)
}

// thankedUsers returns the distinct human users mentioned in a message, excluding its author.
func thankedUsers(msg *discord.Message) []snowflake.ID {
	seen := make(map[snowflake.ID]struct{}, len(msg.Mentions))
	recipients := make([]snowflake.ID, 0, len(msg.Mentions))

	for _, user := range msg.Mentions {
		if user.Bot || user.ID == msg.Author.ID {
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		recipients = append(recipients, user.ID)
	}

	return recipients
}
