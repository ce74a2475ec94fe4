package reputation_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonboulle/clockwork"
	"github.com/robalyx/leo/internal/bot/bottest"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/platform"
	"github.com/robalyx/leo/internal/bot/handlers/reputation"
	"github.com/robalyx/leo/internal/database/types/enum"
	"github.com/robalyx/leo/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	plusOneID      snowflake.ID = 77
	multiPointRole snowflake.ID = 200
	unlimitedRole  snowflake.ID = 300
)

type fixture struct {
	handler    *reputation.Handler
	dispatcher *interaction.Dispatcher
	ledger     *bottest.Ledger
	messenger  *bottest.Messenger
	clock      *clockwork.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Reputation{
		PointsName:      "points",
		PlusOneEmoji:    config.Emoji{ID: uint64(plusOneID), Name: "plusone"},
		VoteEmojiName:   "vote",
		MaxAmount:       5,
		PageSize:        2,
		UnlimitedRoles:  []uint64{uint64(unlimitedRole)},
		MultiPointRoles: []uint64{uint64(multiPointRole)},
	}

	f := &fixture{
		ledger:    bottest.NewLedger(),
		messenger: bottest.NewMessenger(),
		clock:     clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
	}

	names := bottest.Names{2: "bob", 3: "carol"}
	f.handler = reputation.New(cfg, f.ledger, names, f.messenger, f.clock, zap.NewNop())

	dispatcher, err := interaction.NewDispatcher(zap.NewNop(), f.handler)
	require.NoError(t, err)
	f.dispatcher = dispatcher

	return f
}

func reaction(messageID, userID snowflake.ID, emojiID snowflake.ID) *platform.ReactionEvent {
	name := "plusone"
	return &platform.ReactionEvent{
		ChannelID: bottest.Channel,
		MessageID: messageID,
		UserID:    userID,
		Emoji:     discord.PartialEmoji{ID: &emojiID, Name: &name},
	}
}

func (f *fixture) postMessage(id, authorID snowflake.ID) {
	f.messenger.Put(&discord.Message{ID: id, ChannelID: bottest.Channel, Author: discord.User{ID: authorID}})
}

func TestReactionGrantIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.postMessage(10, 2)

	for range 2 {
		require.NoError(t, f.handler.HandleReaction(context.Background(), reaction(10, 3, plusOneID)))
	}

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].RecipientID)
	assert.Equal(t, uint64(3), entries[0].GiverID)
	assert.Equal(t, enum.EntryOriginReaction, entries[0].Origin)
	assert.Equal(t, "Reaction +1", entries[0].Reason)
	assert.Empty(t, f.messenger.Sent)

	// A different member reacting to the same message is a separate grant.
	require.NoError(t, f.handler.HandleReaction(context.Background(), reaction(10, 4, plusOneID)))
	assert.Len(t, f.ledger.Entries(), 2)
}

func TestReactionIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event *platform.ReactionEvent
		setup func(f *fixture)
	}{
		{
			name:  "self reaction",
			event: reaction(10, 2, plusOneID),
			setup: func(f *fixture) { f.postMessage(10, 2) },
		},
		{
			name:  "other emoji",
			event: reaction(10, 3, 12345),
			setup: func(f *fixture) { f.postMessage(10, 2) },
		},
		{
			name: "bot reactor",
			event: func() *platform.ReactionEvent {
				e := reaction(10, 3, plusOneID)
				e.UserIsBot = true
				return e
			}(),
			setup: func(f *fixture) { f.postMessage(10, 2) },
		},
		{
			name:  "bot author",
			event: reaction(11, 3, plusOneID),
			setup: func(f *fixture) {
				f.messenger.Put(&discord.Message{ID: 11, ChannelID: bottest.Channel, Author: discord.User{ID: 9, Bot: true}})
			},
		},
		{
			name:  "deleted message",
			event: reaction(12, 3, plusOneID),
			setup: func(*fixture) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.setup(f)

			require.NoError(t, f.handler.HandleReaction(context.Background(), tt.event))
			assert.Empty(t, f.ledger.Entries())
		})
	}
}

func TestMessageTriggerGrantsEachMention(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	msg := &discord.Message{
		ID:        20,
		ChannelID: bottest.Channel,
		Author:    discord.User{ID: 1},
		Content:   "thanks <@2> and <@3>",
		Mentions: []discord.User{
			{ID: 2}, {ID: 3}, {ID: 2}, {ID: 1}, {ID: 8, Bot: true},
		},
	}
	require.NoError(t, f.handler.HandleMessage(context.Background(), msg))

	entries := f.ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(2), entries[0].RecipientID)
	assert.Equal(t, uint64(3), entries[1].RecipientID)
	for _, entry := range entries {
		assert.Equal(t, "thanks <@2> and <@3>", entry.Reason)
		assert.Equal(t, enum.EntryOriginMessage, entry.Origin)
		assert.Equal(t, uint64(1), entry.GiverID)
	}

	require.Len(t, f.messenger.Sent, 1)
	ack := f.messenger.Sent[0]
	assert.Len(t, strings.Split(ack.Content, "\n"), 2)
	assert.Contains(t, ack.Content, "<@1> gave **<:plusone:77>** points to <@2>.")
	require.NotNil(t, ack.MessageReference)
	assert.Equal(t, snowflake.ID(20), *ack.MessageReference.MessageID)
	require.NotNil(t, ack.AllowedMentions)
	assert.Empty(t, ack.AllowedMentions.Users)
	assert.Empty(t, ack.AllowedMentions.Parse)
}

func TestMessageTriggerIgnored(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  *discord.Message
	}{
		{
			name: "only self mention",
			msg: &discord.Message{
				ID: 21, Author: discord.User{ID: 1}, Content: "thanks <@1>",
				Mentions: []discord.User{{ID: 1}},
			},
		},
		{
			name: "no trigger",
			msg: &discord.Message{
				ID: 22, Author: discord.User{ID: 1}, Content: "hello <@2>",
				Mentions: []discord.User{{ID: 2}},
			},
		},
		{
			name: "bot author",
			msg: &discord.Message{
				ID: 23, Author: discord.User{ID: 9, Bot: true}, Content: "thanks <@2>",
				Mentions: []discord.User{{ID: 2}},
			},
		},
		{
			name: "no mentions",
			msg:  &discord.Message{ID: 24, Author: discord.User{ID: 1}, Content: "thanks all"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			tt.msg.ChannelID = bottest.Channel

			require.NoError(t, f.handler.HandleMessage(context.Background(), tt.msg))
			assert.Empty(t, f.ledger.Entries())
			assert.Empty(t, f.messenger.Sent)
		})
	}
}

func TestMessageTriggerKeepsPartialGrants(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ledger.FailFor[3] = true

	msg := &discord.Message{
		ID:        25,
		ChannelID: bottest.Channel,
		Author:    discord.User{ID: 1},
		Content:   "tyvm <@2> <@3>",
		Mentions:  []discord.User{{ID: 2}, {ID: 3}},
	}

	err := f.handler.HandleMessage(context.Background(), msg)
	require.ErrorIs(t, err, bottest.ErrStorage)

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(2), entries[0].RecipientID)

	require.Len(t, f.messenger.Sent, 1)
	assert.NotContains(t, f.messenger.Sent[0].Content, "<@3>")
}

func TestGiveCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	responder := &bottest.Responder{}

	inter := bottest.Command("rep", "give", 1, map[string]any{
		"user":   snowflake.ID(2),
		"reason": "reviewed my PR",
	})
	require.True(t, f.dispatcher.Dispatch(context.Background(), inter, responder))

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Delta)
	assert.Equal(t, enum.EntryOriginCommand, entries[0].Origin)
	assert.Zero(t, entries[0].MessageID)
	assert.Equal(t, "reviewed my PR", entries[0].Reason)

	reply := responder.LastCreated()
	assert.Equal(t,
		"<@1> gave **<:plusone:77>** points to <@2>. (current: `#1` - `1`) Reason:\n> reviewed my PR",
		reply.Content)
	assert.False(t, reply.Flags.Has(discord.MessageFlagEphemeral))
	require.NotNil(t, reply.AllowedMentions)
	assert.Equal(t, []snowflake.ID{2}, reply.AllowedMentions.Users)
}

func TestGiveCommandRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inter   *interaction.Interaction
		message string
	}{
		{
			name: "above ceiling",
			inter: bottest.WithRoles(bottest.Command("rep", "give", 1, map[string]any{
				"user": snowflake.ID(2), "amount": 10,
			}), multiPointRole),
			message: "You cannot give more than 5 points at once.",
		},
		{
			name: "self give",
			inter: bottest.Command("rep", "give", 1, map[string]any{
				"user": snowflake.ID(1),
			}),
			message: "You cannot give points to yourself.",
		},
		{
			name: "negative without role",
			inter: bottest.Command("rep", "give", 1, map[string]any{
				"user": snowflake.ID(2), "amount": -1,
			}),
			message: "You are not allowed to take points away.",
		},
		{
			name: "zero amount",
			inter: bottest.Command("rep", "give", 1, map[string]any{
				"user": snowflake.ID(2), "amount": 0,
			}),
			message: interaction.FailureMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			responder := &bottest.Responder{}

			require.True(t, f.dispatcher.Dispatch(context.Background(), tt.inter, responder))

			assert.Empty(t, f.ledger.Entries())
			require.Len(t, responder.Created, 1)
			assert.Equal(t, tt.message, responder.Created[0].Content)
			assert.True(t, responder.Created[0].Flags.Has(discord.MessageFlagEphemeral))
		})
	}
}

func TestGiveCommandUnlimitedRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	responder := &bottest.Responder{}

	inter := bottest.WithRoles(bottest.Command("rep", "give", 1, map[string]any{
		"user": snowflake.ID(2), "amount": 10,
	}), unlimitedRole)
	require.True(t, f.dispatcher.Dispatch(context.Background(), inter, responder))

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 10, entries[0].Delta)
	assert.Contains(t, responder.LastCreated().Content, "gave **+10** points")
}

func TestCheckCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.postMessage(10, 2)
	require.NoError(t, f.handler.HandleReaction(context.Background(), reaction(10, 3, plusOneID)))

	responder := &bottest.Responder{}
	f.dispatcher.Dispatch(context.Background(), bottest.Command("rep", "check", 1, map[string]any{
		"user": snowflake.ID(2),
	}), responder)
	assert.Equal(t, "<@2>: **1** points (#**1**)", responder.LastCreated().Content)

	// Without a user the invoker is checked.
	responder = &bottest.Responder{}
	f.dispatcher.Dispatch(context.Background(), bottest.Command("rep", "check", 4, nil), responder)
	assert.Equal(t, "<@4>: **0** points (no points yet)", responder.LastCreated().Content)
}

func TestScoreboardCommand(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	// Users 2 and 3 tie on one point; 3 was credited later and ranks first.
	f.postMessage(10, 2)
	f.postMessage(11, 3)
	f.postMessage(12, 4)
	require.NoError(t, f.handler.HandleReaction(ctx, reaction(10, 5, plusOneID)))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.handler.HandleReaction(ctx, reaction(11, 5, plusOneID)))
	f.clock.Advance(time.Minute)
	require.NoError(t, f.handler.HandleReaction(ctx, reaction(12, 5, plusOneID)))
	require.NoError(t, f.handler.HandleReaction(ctx, reaction(12, 6, plusOneID)))

	responder := &bottest.Responder{}
	f.dispatcher.Dispatch(ctx, bottest.Command("rep", "scoreboard", 1, nil), responder)

	reply := responder.LastCreated()
	assert.Equal(t, "Reputation Scoreboard:", reply.Content)
	require.Len(t, reply.Embeds, 1)
	assert.Equal(t, "Page 1 of 2", reply.Embeds[0].Footer.Text)

	lines := strings.Split(strings.Trim(reply.Embeds[0].Description, "`\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], "| 4"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "| carol"), lines[2])

	responder = &bottest.Responder{}
	f.dispatcher.Dispatch(ctx, bottest.Command("rep", "scoreboard", 1, map[string]any{"page": 2}), responder)
	lines = strings.Split(strings.Trim(responder.LastCreated().Embeds[0].Description, "`\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "   #2    |")
	assert.True(t, strings.HasSuffix(lines[1], "| bob"), lines[1])

	responder = &bottest.Responder{}
	f.dispatcher.Dispatch(ctx, bottest.Command("rep", "scoreboard", 1, map[string]any{"page": 5}), responder)
	assert.Equal(t, "No scores on this page.", responder.LastCreated().Embeds[0].Description)
}
