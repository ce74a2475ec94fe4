package poll

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"github.com/robalyx/leo/internal/database/types"
	"go.uber.org/zap"
)

const (
	tooFewOptionsMessage  = "A poll needs at least two options."
	pollClosedMessage     = "This poll is closed."
	pollGoneMessage       = "This poll no longer exists."
	notCreatorMessage     = "You cannot close this poll."
	closedMessage         = "Poll closed."
	closedNoEditMessage   = "Poll closed, but its message could not be updated."
	pollNotFoundFormat    = "Poll #%d does not exist."
	missingMessageFormat  = "The previous message for poll #%d could not be found. Run this command again to post it."
	minimumOptionsPerPoll = 2
)

// Store persists polls and their votes.
type Store interface {
	Create(ctx context.Context, poll *types.Poll, labels []string) (*types.PollTally, error)
	Tally(ctx context.Context, pollID int64) (*types.PollTally, error)
	Vote(ctx context.Context, pollID, optionID int64, voterID uint64, now time.Time) error
	Close(ctx context.Context, pollID int64) error
	SetMessage(ctx context.Context, pollID int64, channelID, messageID uint64) error
}

// Handler is the poll engine behind the poll command and its voting controls.
type Handler struct {
	store     Store
	messenger platform.Messenger
	clock     clockwork.Clock
	logger    *zap.Logger
}

// New creates the poll engine.
func New(store Store, messenger platform.Messenger, clock clockwork.Clock, logger *zap.Logger) *Handler {
	return &Handler{
		store:     store,
		messenger: messenger,
		clock:     clock,
		logger:    logger.Named("poll"),
	}
}

// Routes registers the poll command and the vote control.
func (h *Handler) Routes() interaction.Routes {
	return interaction.Routes{
		Commands: map[string]*interaction.CommandRoute{
			constants.PollCommandName: {
				Subcommands: map[string]interaction.CommandHandler{
					constants.BinarySubcommand:   h.binary,
					constants.MultipleSubcommand: h.multiple,
					constants.CloseSubcommand:    h.closePoll,
					constants.ShowSubcommand:     h.show,
				},
			},
		},
		Components: map[string]interaction.ComponentHandler{
			constants.VoteComponentName: h.vote,
		},
	}
}
