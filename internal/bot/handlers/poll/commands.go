package poll

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"github.com/robalyx/leo/internal/bot/utils"
	view "github.com/robalyx/leo/internal/bot/views/poll"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/robalyx/leo/internal/metrics"
	"go.uber.org/zap"
)

// binary handles /poll binary.
func (h *Handler) binary(c *interaction.Context, opts interaction.Options) error {
	question, err := requireQuestion(opts)
	if err != nil {
		return err
	}

	return h.create(c, question, enum.PollTypeBinary, []string{constants.BinaryYesLabel, constants.BinaryNoLabel})
}

// multiple handles /poll multiple.
func (h *Handler) multiple(c *interaction.Context, opts interaction.Options) error {
	question, err := requireQuestion(opts)
	if err != nil {
		return err
	}

	var labels []string
	for i := 1; i <= constants.MaxPollOptions; i++ {
		label := strings.TrimSpace(opts.StringOr(constants.OptionPrefix+strconv.Itoa(i), ""))
		if label == "" {
			continue
		}
		labels = append(labels, utils.ClampString(label, constants.MaxOptionLabelLength))
	}

	if len(labels) < minimumOptionsPerPoll {
		return c.Ephemeral(tooFewOptionsMessage)
	}

	return h.create(c, question, enum.PollTypeMultiple, labels)
}

// create stores a poll, posts it as the interaction response and remembers where it was posted.
func (h *Handler) create(c *interaction.Context, question string, pollType enum.PollType, labels []string) error {
	poll := &types.Poll{
		CreatorID: uint64(c.UserID()),
		Question:  question,
		Type:      pollType,
		CreatedAt: h.clock.Now(),
	}

	tally, err := h.store.Create(c.Context(), poll, labels)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	metrics.PollsCreatedTotal.WithLabelValues(pollType.String()).Inc()

	return h.post(c, tally)
}

// closePoll handles /poll close.
func (h *Handler) closePoll(c *interaction.Context, opts interaction.Options) error {
	pollID, err := requirePollID(opts)
	if err != nil {
		return err
	}

	tally, err := h.store.Tally(c.Context(), pollID)
	if errors.Is(err, types.ErrPollNotFound) {
		return c.Ephemeral(fmt.Sprintf(pollNotFoundFormat, pollID))
	}
	if err != nil {
		return fmt.Errorf("failed to load poll: %w", err)
	}

	if tally.Poll.CreatorID != uint64(c.UserID()) {
		return c.Ephemeral(notCreatorMessage)
	}

	if err := h.store.Close(c.Context(), pollID); err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}
	tally.Poll.Closed = true

	if !tally.Poll.HasMessage() {
		return c.Ephemeral(closedNoEditMessage)
	}

	update, err := view.NewBuilder(tally).BuildUpdate()
	if err != nil {
		return err
	}

	_, err = h.messenger.EditMessage(c.Context(),
		snowflakeOf(tally.Poll.ChannelID), snowflakeOf(tally.Poll.MessageID), update.Build())
	if err != nil {
		h.logger.Warn("Failed to update closed poll message",
			zap.Int64("pollID", pollID),
			zap.Uint64("messageID", tally.Poll.MessageID),
			zap.Error(err))
		return c.Ephemeral(closedNoEditMessage)
	}

	return c.Ephemeral(closedMessage)
}

// show handles /poll show by re-posting the poll in the current channel.
func (h *Handler) show(c *interaction.Context, opts interaction.Options) error {
	pollID, err := requirePollID(opts)
	if err != nil {
		return err
	}

	tally, err := h.store.Tally(c.Context(), pollID)
	if errors.Is(err, types.ErrPollNotFound) {
		return c.Ephemeral(fmt.Sprintf(pollNotFoundFormat, pollID))
	}
	if err != nil {
		return fmt.Errorf("failed to load poll: %w", err)
	}

	if tally.Poll.HasMessage() {
		err := h.messenger.DeleteMessage(c.Context(),
			snowflakeOf(tally.Poll.ChannelID), snowflakeOf(tally.Poll.MessageID))
		if errors.Is(err, platform.ErrMessageNotFound) {
			if err := h.store.SetMessage(c.Context(), pollID, 0, 0); err != nil {
				return fmt.Errorf("failed to clear poll message: %w", err)
			}
			return c.Ephemeral(fmt.Sprintf(missingMessageFormat, pollID))
		}
		if err != nil {
			return fmt.Errorf("failed to delete previous poll message: %w", err)
		}
	}

	return h.post(c, tally)
}

// post answers the interaction with the poll and stores the resulting message reference.
func (h *Handler) post(c *interaction.Context, tally *types.PollTally) error {
	create, err := view.NewBuilder(tally).BuildCreate()
	if err != nil {
		return err
	}

	if err := c.Reply(create.Build()); err != nil {
		return fmt.Errorf("failed to post poll: %w", err)
	}

	msg, err := c.Response()
	if err != nil {
		return fmt.Errorf("failed to fetch posted poll: %w", err)
	}

	if err := h.store.SetMessage(c.Context(), tally.Poll.ID, uint64(msg.ChannelID), uint64(msg.ID)); err != nil {
		return fmt.Errorf("failed to store poll message: %w", err)
	}

	return nil
}

func requireQuestion(opts interaction.Options) (string, error) {
	question := strings.TrimSpace(opts.StringOr(constants.QuestionOption, ""))
	if question == "" {
		return "", fmt.Errorf("%w: missing question", interaction.ErrValidation)
	}
	return question, nil
}

func requirePollID(opts interaction.Options) (int64, error) {
	pollID, ok := opts.Int(constants.PollOption)
	if !ok || pollID <= 0 {
		return 0, fmt.Errorf("%w: missing poll id", interaction.ErrValidation)
	}
	return int64(pollID), nil
}
