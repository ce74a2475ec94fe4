package reputation

import (
	"fmt"
	"strings"

	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/utils"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/setup/config"
)

// Formatter renders reputation replies using the guild's naming.
type Formatter struct {
	pointsName string
	emoji      config.Emoji
}

// NewFormatter creates a formatter from the reputation settings.
func NewFormatter(cfg *config.Reputation) *Formatter {
	return &Formatter{
		pointsName: cfg.PointsName,
		emoji:      cfg.PlusOneEmoji,
	}
}

// PointsName returns the configured name for reputation points.
func (f *Formatter) PointsName() string {
	return f.pointsName
}

// Amount renders a grant amount. A single point is shown as the plus-one emoji when one is configured.
func (f *Formatter) Amount(amount int) string {
	if amount == 1 && f.emoji.IsSet() && f.emoji.ID != 0 {
		return fmt.Sprintf("<:%s:%d>", f.emoji.Name, f.emoji.ID)
	}
	return utils.FormatSigned(int64(amount))
}

// Standing renders a user's current rank and score.
func (f *Formatter) Standing(entry *types.RankEntry) string {
	if !entry.Ranked() {
		return "(current: `" + constants.NoPointsYet + "`)"
	}
	return fmt.Sprintf("(current: `#%d` - `%s`)", entry.Rank, utils.FormatNumber(entry.Score))
}

// Grant renders the acknowledgement for one grant.
func (f *Formatter) Grant(giverID uint64, amount int, recipient *types.RankEntry) string {
	return fmt.Sprintf("%s gave **%s** %s to %s. %s",
		utils.Mention(giverID),
		f.Amount(amount),
		f.pointsName,
		utils.Mention(recipient.UserID),
		f.Standing(recipient))
}

// GrantWithReason renders a grant acknowledgement followed by the quoted reason, if any.
func (f *Formatter) GrantWithReason(giverID uint64, amount int, recipient *types.RankEntry, reason string) string {
	line := f.Grant(giverID, amount, recipient)
	if strings.TrimSpace(reason) == "" {
		return line
	}
	return line + " Reason:\n" + utils.Quote(reason)
}

// Grants renders one acknowledgement line per recipient.
func (f *Formatter) Grants(giverID uint64, amount int, recipients []*types.RankEntry) string {
	lines := make([]string, len(recipients))
	for i, recipient := range recipients {
		lines[i] = f.Grant(giverID, amount, recipient)
	}
	return strings.Join(lines, "\n")
}

// Check renders a user's score lookup.
func (f *Formatter) Check(entry *types.RankEntry) string {
	if !entry.Ranked() {
		return fmt.Sprintf("%s: **%s** %s (%s)",
			utils.Mention(entry.UserID), utils.FormatNumber(entry.Score), f.pointsName, constants.NoPointsYet)
	}
	return fmt.Sprintf("%s: **%s** %s (#**%d**)",
		utils.Mention(entry.UserID), utils.FormatNumber(entry.Score), f.pointsName, entry.Rank)
}
