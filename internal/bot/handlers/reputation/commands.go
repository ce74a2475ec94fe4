package reputation

import (
	"context"
	"fmt"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/permission"
	"github.com/robalyx/leo/internal/bot/utils"
	view "github.com/robalyx/leo/internal/bot/views/reputation"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/robalyx/leo/internal/metrics"
	"github.com/robalyx/leo/internal/rank"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// give handles /rep give.
func (h *Handler) give(c *interaction.Context, opts interaction.Options) error {
	recipientID, ok := opts.Snowflake(constants.UserOption)
	if !ok {
		return fmt.Errorf("%w: missing recipient", interaction.ErrValidation)
	}

	amount := opts.IntOr(constants.AmountOption, constants.DefaultGiveAmount)
	if amount == 0 {
		return fmt.Errorf("%w: amount must not be zero", interaction.ErrValidation)
	}

	inter := c.Interaction()
	roles := make([]uint64, len(inter.RoleIDs))
	for i, role := range inter.RoleIDs {
		roles[i] = uint64(role)
	}

	if denied := h.policy.Check(permission.Grant{
		GiverID:     uint64(c.UserID()),
		RecipientID: uint64(recipientID),
		Amount:      amount,
		RoleIDs:     roles,
	}); denied != nil {
		metrics.GrantsRejectedTotal.WithLabelValues(string(denied.Rule)).Inc()
		h.logger.Debug("Grant denied",
			zap.Uint64("giverID", uint64(c.UserID())),
			zap.Uint64("recipientID", uint64(recipientID)),
			zap.Int("amount", amount),
			zap.String("rule", string(denied.Rule)))
		return c.Ephemeral(denied.Message)
	}

	reason := utils.ClampString(opts.StringOr(constants.ReasonOption, ""), constants.MaxReasonLength)

	entry := &types.LedgerEntry{
		RecipientID: uint64(recipientID),
		Delta:       amount,
		Reason:      reason,
		GiverID:     uint64(c.UserID()),
		ChannelID:   uint64(inter.ChannelID),
		Origin:      enum.EntryOriginCommand,
		CreatedAt:   h.clock.Now(),
	}
	if err := h.ledger.Grant(c.Context(), entry); err != nil {
		return fmt.Errorf("failed to grant %s: %w", h.cfg.PointsName, err)
	}
	metrics.GrantsTotal.WithLabelValues(enum.EntryOriginCommand.String()).Inc()

	standing, err := h.ledger.RankOf(c.Context(), uint64(recipientID))
	if err != nil {
		return fmt.Errorf("failed to load standing: %w", err)
	}

	return c.Reply(discord.NewMessageCreateBuilder().
		SetContent(h.format.GrantWithReason(uint64(c.UserID()), amount, standing, reason)).
		SetAllowedMentions(&discord.AllowedMentions{Users: []snowflake.ID{recipientID}}).
		Build())
}

// check handles /rep check.
func (h *Handler) check(c *interaction.Context, opts interaction.Options) error {
	userID, ok := opts.Snowflake(constants.UserOption)
	if !ok {
		userID = c.UserID()
	}

	standing, err := h.ledger.RankOf(c.Context(), uint64(userID))
	if err != nil {
		return fmt.Errorf("failed to load standing: %w", err)
	}

	return c.Reply(discord.NewMessageCreateBuilder().
		SetContent(h.format.Check(standing)).
		SetAllowedMentions(&discord.AllowedMentions{}).
		Build())
}

// scoreboard handles /rep scoreboard.
func (h *Handler) scoreboard(c *interaction.Context, opts interaction.Options) error {
	page := max(opts.IntOr(constants.PageOption, 1), 1)

	entries, err := h.ledger.Rank(c.Context())
	if err != nil {
		return fmt.Errorf("failed to load rank view: %w", err)
	}

	shown, pages := rank.Page(entries, page, h.cfg.PageSize)
	names := h.resolveNames(c.Context(), shown)

	return c.Reply(view.NewScoreboardBuilder(shown, names, page, pages).Build().Build())
}

// resolveNames fetches display names for a page concurrently.
// Users whose name cannot be resolved are left out and shown by ID.
func (h *Handler) resolveNames(ctx context.Context, entries []*types.RankEntry) map[uint64]string {
	var (
		names = make(map[uint64]string, len(entries))
		mu    sync.Mutex
		p     = pool.New().WithContext(ctx).WithMaxGoroutines(constants.ScoreboardPageSize)
	)

	for _, entry := range entries {
		p.Go(func(ctx context.Context) error {
			name, err := h.names.Name(ctx, entry.UserID)
			if err != nil {
				h.logger.Warn("Failed to resolve display name",
					zap.Uint64("userID", entry.UserID),
					zap.Error(err))
				return nil
			}

			mu.Lock()
			names[entry.UserID] = name
			mu.Unlock()
			return nil
		})
	}

	_ = p.Wait()

	return names
}
