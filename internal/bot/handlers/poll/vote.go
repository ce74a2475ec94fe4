package poll

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	view "github.com/robalyx/leo/internal/bot/views/poll"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/metrics"
	"go.uber.org/zap"
)

// vote records a button press or select choice and re-renders the tally in place.
func (h *Handler) vote(c *interaction.Context, data *interaction.ComponentData) error {
	var payload view.VotePayload
	if err := data.Decode(&payload); err != nil {
		return err
	}

	optionID := payload.Option
	if optionID == 0 && len(data.Values) > 0 {
		parsed, err := strconv.ParseInt(data.Values[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: malformed option %q", interaction.ErrValidation, data.Values[0])
		}
		optionID = parsed
	}

	err := h.store.Vote(c.Context(), payload.Poll, optionID, uint64(c.UserID()), h.clock.Now())
	switch {
	case errors.Is(err, types.ErrPollClosed):
		metrics.VotesTotal.WithLabelValues("closed").Inc()
		return c.Ephemeral(pollClosedMessage)
	case errors.Is(err, types.ErrPollNotFound):
		metrics.VotesTotal.WithLabelValues("missing").Inc()
		return c.Ephemeral(pollGoneMessage)
	case errors.Is(err, types.ErrOptionNotFound):
		metrics.VotesTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%w: option %d is not part of poll %d", interaction.ErrValidation, optionID, payload.Poll)
	case err != nil:
		return fmt.Errorf("failed to record vote: %w", err)
	}
	metrics.VotesTotal.WithLabelValues("ok").Inc()

	h.logger.Debug("Recorded vote",
		zap.Int64("pollID", payload.Poll),
		zap.Int64("optionID", optionID),
		zap.Uint64("voterID", uint64(c.UserID())))

	tally, err := h.store.Tally(c.Context(), payload.Poll)
	if err != nil {
		return fmt.Errorf("failed to load tally: %w", err)
	}

	update, err := view.NewBuilder(tally).BuildUpdate()
	if err != nil {
		return err
	}

	return c.Update(update.Build())
}

func snowflakeOf(id uint64) snowflake.ID {
	return snowflake.ID(id)
}
