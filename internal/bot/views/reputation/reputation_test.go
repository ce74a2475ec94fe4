package reputation_test

import (
	"strings"
	"testing"

	"github.com/robalyx/leo/internal/bot/views/reputation"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(userID uint64, score int64, rank int) *types.RankEntry {
	return &types.RankEntry{ScoreAggregate: types.ScoreAggregate{UserID: userID, Score: score}, Rank: rank}
}

func TestFormatterCheck(t *testing.T) {
	t.Parallel()

	f := reputation.NewFormatter(&config.Reputation{PointsName: "points"})

	assert.Equal(t, "<@1>: **1,200** points (#**2**)", f.Check(ranked(1, 1200, 2)))
	assert.Equal(t, "<@9>: **0** points (no points yet)", f.Check(ranked(9, 0, 0)))
}

func TestFormatterGrant(t *testing.T) {
	t.Parallel()

	plain := reputation.NewFormatter(&config.Reputation{PointsName: "points"})
	emoji := reputation.NewFormatter(&config.Reputation{
		PointsName:   "points",
		PlusOneEmoji: config.Emoji{ID: 55, Name: "plusone"},
	})

	tests := []struct {
		name      string
		formatter *reputation.Formatter
		amount    int
		reason    string
		want      string
	}{
		{
			name:      "single point",
			formatter: plain,
			amount:    1,
			want:      "<@1> gave **+1** points to <@2>. (current: `#1` - `3`)",
		},
		{
			name:      "single point as emoji",
			formatter: emoji,
			amount:    1,
			want:      "<@1> gave **<:plusone:55>** points to <@2>. (current: `#1` - `3`)",
		},
		{
			name:      "negative amount",
			formatter: emoji,
			amount:    -2,
			want:      "<@1> gave **-2** points to <@2>. (current: `#1` - `3`)",
		},
		{
			name:      "with reason",
			formatter: plain,
			amount:    3,
			reason:    "fixed the build",
			want:      "<@1> gave **+3** points to <@2>. (current: `#1` - `3`) Reason:\n> fixed the build",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.formatter.GrantWithReason(1, tt.amount, ranked(2, 3, 1), tt.reason)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatterGrants(t *testing.T) {
	t.Parallel()

	f := reputation.NewFormatter(&config.Reputation{PointsName: "points"})
	got := f.Grants(1, 1, []*types.RankEntry{ranked(2, 5, 1), ranked(3, 1, 2)})

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "<@2>")
	assert.Contains(t, lines[1], "`#2` - `1`")
}

func TestScoreboardTable(t *testing.T) {
	t.Parallel()

	entries := []*types.RankEntry{ranked(1, 12345, 1), ranked(2, 12345, 1), ranked(3, 7, 2)}
	names := map[uint64]string{1: "alice", 2: "bob\nsmith"}

	table := reputation.NewScoreboardBuilder(entries, names, 1, 1).Table()
	lines := strings.Split(table, "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "- Rank - | - Points - | - User -", lines[0])
	assert.Equal(t, "   #1    |     12,345 | alice", lines[1])
	assert.Equal(t, "   #1    |     12,345 | bob smith", lines[2])
	assert.Equal(t, "   #2    |          7 | 3", lines[3])
}

func TestScoreboardBuild(t *testing.T) {
	t.Parallel()

	msg := reputation.NewScoreboardBuilder([]*types.RankEntry{ranked(1, 1, 1)}, nil, 2, 3).Build().Build()

	assert.Equal(t, "Reputation Scoreboard:", msg.Content)
	require.Len(t, msg.Embeds, 1)
	assert.Equal(t, "Scoreboard", msg.Embeds[0].Title)
	assert.Equal(t, "Page 2 of 3", msg.Embeds[0].Footer.Text)
	assert.True(t, strings.HasPrefix(msg.Embeds[0].Description, "```\n"))

	empty := reputation.NewScoreboardBuilder(nil, nil, 4, 3).Build().Build()
	assert.Equal(t, "No scores on this page.", empty.Embeds[0].Description)
}
