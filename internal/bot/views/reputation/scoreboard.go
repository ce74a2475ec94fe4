package reputation

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/utils"
	"github.com/robalyx/leo/internal/database/types"
	"golang.org/x/text/width"
)

const (
	columnSeparator = " | "
	rankHeader      = "- Rank -"
	pointsHeader    = "- Points -"
	userHeader      = "- User -"
)

// ScoreboardBuilder creates the scoreboard message for one page of the rank view.
type ScoreboardBuilder struct {
	entries []*types.RankEntry
	names   map[uint64]string
	page    int
	pages   int
}

// NewScoreboardBuilder creates a scoreboard builder.
// Names maps user IDs to display names; missing names fall back to the raw ID.
func NewScoreboardBuilder(entries []*types.RankEntry, names map[uint64]string, page, pages int) *ScoreboardBuilder {
	return &ScoreboardBuilder{
		entries: entries,
		names:   names,
		page:    page,
		pages:   pages,
	}
}

// Build creates the scoreboard message.
func (b *ScoreboardBuilder) Build() *discord.MessageCreateBuilder {
	embed := discord.NewEmbedBuilder().
		SetTitle(constants.ScoreboardTitle).
		SetColor(constants.DefaultEmbedColor).
		SetFooterText(fmt.Sprintf("Page %d of %d", b.page, b.pages))

	if len(b.entries) == 0 {
		embed.SetDescription(constants.ScoreboardEmptyPage)
	} else {
		embed.SetDescription("```\n" + b.Table() + "\n```")
	}

	return discord.NewMessageCreateBuilder().
		SetContent(constants.ScoreboardContent).
		SetEmbeds(embed.Build()).
		SetAllowedMentions(&discord.AllowedMentions{})
}

// Table renders the fixed-width table of the page.
func (b *ScoreboardBuilder) Table() string {
	ranks := make([]string, len(b.entries))
	points := make([]string, len(b.entries))
	users := make([]string, len(b.entries))

	rankWidth := displayWidth(rankHeader)
	pointsWidth := displayWidth(pointsHeader)

	for i, entry := range b.entries {
		ranks[i] = fmt.Sprintf("#%d", entry.Rank)
		points[i] = utils.FormatNumber(entry.Score)
		users[i] = b.name(entry.UserID)

		rankWidth = max(rankWidth, displayWidth(ranks[i]))
		pointsWidth = max(pointsWidth, displayWidth(points[i]))
	}

	lines := make([]string, 0, len(b.entries)+1)
	lines = append(lines, strings.Join([]string{
		padCenter(rankHeader, rankWidth),
		padLeft(pointsHeader, pointsWidth),
		userHeader,
	}, columnSeparator))

	for i := range b.entries {
		lines = append(lines, strings.Join([]string{
			padCenter(ranks[i], rankWidth),
			padLeft(points[i], pointsWidth),
			users[i],
		}, columnSeparator))
	}

	return strings.Join(lines, "\n")
}

func (b *ScoreboardBuilder) name(userID uint64) string {
	name := utils.NormalizeString(b.names[userID])
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("%d", userID)
	}
	return utils.TruncateString(name, constants.ScoreboardNameLength)
}

// displayWidth counts terminal columns, treating wide and fullwidth runes as two.
func displayWidth(s string) int {
	total := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2
		default:
			total++
		}
	}
	return total
}

func padLeft(s string, size int) string {
	gap := size - displayWidth(s)
	if gap <= 0 {
		return s
	}
	return strings.Repeat(" ", gap) + s
}

func padCenter(s string, size int) string {
	gap := size - displayWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}
