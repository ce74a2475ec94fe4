package reputation

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/permission"
	"github.com/robalyx/leo/internal/bot/core/platform"
	view "github.com/robalyx/leo/internal/bot/views/reputation"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/setup/config"
	"go.uber.org/zap"
)

// Ledger is the reputation store used by the engine.
type Ledger interface {
	Grant(ctx context.Context, entry *types.LedgerEntry) error
	Rank(ctx context.Context) ([]*types.RankEntry, error)
	RankOf(ctx context.Context, userID uint64) (*types.RankEntry, error)
}

// NameResolver looks up display names for the scoreboard.
type NameResolver interface {
	Name(ctx context.Context, userID uint64) (string, error)
}

// Handler is the reputation engine. It reacts to reactions and messages
// and serves the rep command.
type Handler struct {
	cfg       *config.Reputation
	ledger    Ledger
	names     NameResolver
	messenger platform.Messenger
	policy    *permission.Policy
	format    *view.Formatter
	triggers  *triggers
	clock     clockwork.Clock
	logger    *zap.Logger
}

// New creates the reputation engine.
func New(
	cfg *config.Reputation,
	ledger Ledger,
	names NameResolver,
	messenger platform.Messenger,
	clock clockwork.Clock,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		cfg:       cfg,
		ledger:    ledger,
		names:     names,
		messenger: messenger,
		policy: &permission.Policy{
			MaxAmount:       cfg.MaxAmount,
			PointsName:      cfg.PointsName,
			UnlimitedRoles:  cfg.UnlimitedRoles,
			MultiPointRoles: cfg.MultiPointRoles,
			NegativeRoles:   cfg.NegativeRoles,
		},
		format:   view.NewFormatter(cfg),
		triggers: newTriggers(cfg.VoteEmojiName),
		clock:    clock,
		logger:   logger.Named("reputation"),
	}
}

// Routes registers the rep command.
func (h *Handler) Routes() interaction.Routes {
	return interaction.Routes{
		Commands: map[string]*interaction.CommandRoute{
			constants.RepCommandName: {
				Subcommands: map[string]interaction.CommandHandler{
					constants.GiveSubcommand:       h.give,
					constants.CheckSubcommand:      h.check,
					constants.ScoreboardSubcommand: h.scoreboard,
				},
			},
		},
	}
}
