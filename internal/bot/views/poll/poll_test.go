package poll_test

import (
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/views/poll"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shipIt(closed bool) *types.PollTally {
	p := &types.Poll{ID: 3, CreatorID: 1, Question: "Ship it?", Type: enum.PollTypeBinary, Closed: closed}
	options := []*types.PollOption{
		{ID: 10, PollID: 3, Label: "Yes"},
		{ID: 11, PollID: 3, Label: "No"},
	}
	choices := []*types.PollChoice{
		{PollID: 3, VoterID: 100, OptionID: 10},
		{PollID: 3, VoterID: 101, OptionID: 10},
		{PollID: 3, VoterID: 102, OptionID: 11},
	}
	return types.NewPollTally(p, options, choices)
}

func TestEmbedShowsTally(t *testing.T) {
	t.Parallel()

	embed := poll.NewBuilder(shipIt(false)).Embed()

	assert.Equal(t, "Ship it?", embed.Title)
	assert.Equal(t, "Total votes: 3", embed.Description)
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "binary poll #3", embed.Footer.Text)

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Yes: 2", embed.Fields[0].Name)
	assert.Equal(t, "<@100> <@101>", embed.Fields[0].Value)
	assert.Equal(t, "No: 1", embed.Fields[1].Name)
	assert.Equal(t, "<@102>", embed.Fields[1].Value)
}

func TestEmbedClosedAndEmpty(t *testing.T) {
	t.Parallel()

	p := &types.Poll{ID: 4, Question: "Lunch?", Type: enum.PollTypeMultiple, Closed: true}
	tally := types.NewPollTally(p, []*types.PollOption{{ID: 1, PollID: 4, Label: "Pizza"}}, nil)

	builder := poll.NewBuilder(tally)
	embed := builder.Embed()

	assert.Equal(t, "Lunch? (closed)", embed.Title)
	assert.Equal(t, "*No votes*", embed.Fields[0].Value)

	components, err := builder.Components()
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestEmbedElidesVoters(t *testing.T) {
	t.Parallel()

	p := &types.Poll{ID: 5, Question: "Crowd?", Type: enum.PollTypeBinary}
	options := []*types.PollOption{{ID: 1, PollID: 5, Label: "Yes"}, {ID: 2, PollID: 5, Label: "No"}}

	var choices []*types.PollChoice
	for voter := range uint64(50) {
		choices = append(choices, &types.PollChoice{PollID: 5, VoterID: voter + 1, OptionID: 1})
	}

	embed := poll.NewBuilder(types.NewPollTally(p, options, choices)).Embed()

	assert.Equal(t, "Yes: 50", embed.Fields[0].Name)
	assert.Equal(t, 44, strings.Count(embed.Fields[0].Value, "<@"))
	assert.True(t, strings.HasSuffix(embed.Fields[0].Value, "…"))
}

func TestEmbedTruncatesQuestion(t *testing.T) {
	t.Parallel()

	p := &types.Poll{ID: 6, Question: strings.Repeat("q", 300), Type: enum.PollTypeBinary}
	embed := poll.NewBuilder(types.NewPollTally(p, nil, nil)).Embed()

	assert.Len(t, embed.Title, 245)
	assert.True(t, strings.HasSuffix(embed.Title, "..."))
}

func TestBinaryButtons(t *testing.T) {
	t.Parallel()

	components, err := poll.NewBuilder(shipIt(false)).Components()
	require.NoError(t, err)
	require.Len(t, components, 1)

	row, ok := components[0].(discord.ActionRowComponent)
	require.True(t, ok)

	buttons := row.Components()
	require.Len(t, buttons, 2)

	yes, ok := buttons[0].(discord.ButtonComponent)
	require.True(t, ok)
	assert.Equal(t, "Yes", yes.Label)
	assert.Equal(t, discord.ButtonStyleSuccess, yes.Style)

	no, ok := buttons[1].(discord.ButtonComponent)
	require.True(t, ok)
	assert.Equal(t, discord.ButtonStyleDanger, no.Style)

	data := interaction.ParseComponent(yes.CustomID, nil)
	assert.Equal(t, "vote", data.Name)

	var payload poll.VotePayload
	require.NoError(t, data.Decode(&payload))
	assert.Equal(t, poll.VotePayload{Name: "vote", Poll: 3, Option: 10}, payload)
}

func TestMultipleSelectMenu(t *testing.T) {
	t.Parallel()

	p := &types.Poll{ID: 7, Question: "Colour?", Type: enum.PollTypeMultiple}
	options := []*types.PollOption{
		{ID: 20, PollID: 7, Label: "Red"},
		{ID: 21, PollID: 7, Label: strings.Repeat("b", 150)},
		{ID: 22, PollID: 7, Label: "Green"},
	}

	components, err := poll.NewBuilder(types.NewPollTally(p, options, nil)).Components()
	require.NoError(t, err)
	require.Len(t, components, 1)

	row, ok := components[0].(discord.ActionRowComponent)
	require.True(t, ok)
	require.Len(t, row.Components(), 1)

	menu, ok := row.Components()[0].(discord.StringSelectMenuComponent)
	require.True(t, ok)
	assert.Equal(t, "Choose an option", menu.Placeholder)
	require.Len(t, menu.Options, 3)
	assert.Equal(t, "20", menu.Options[0].Value)
	assert.Len(t, menu.Options[1].Label, 100)

	var payload poll.VotePayload
	require.NoError(t, interaction.ParseComponent(menu.CustomID, []string{"22"}).Decode(&payload))
	assert.Equal(t, int64(7), payload.Poll)
	assert.Zero(t, payload.Option)
}
