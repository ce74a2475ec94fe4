package poll

import (
	"fmt"
	"strconv"

	"github.com/disgoorg/disgo/discord"
	"github.com/robalyx/leo/internal/bot/constants"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/utils"
	"github.com/robalyx/leo/internal/database/types"
	"github.com/robalyx/leo/internal/database/types/enum"
)

// VotePayload is the custom id carried by poll controls.
// Option is empty for select menus, which send the option ID as their value.
type VotePayload struct {
	Name   string `json:"name"`
	Poll   int64  `json:"poll"`
	Option int64  `json:"option,omitempty"`
}

// Builder creates the poll message from its current tally.
type Builder struct {
	tally *types.PollTally
}

// NewBuilder creates a new poll builder.
func NewBuilder(tally *types.PollTally) *Builder {
	return &Builder{tally: tally}
}

// Embed renders the question and the tally.
func (b *Builder) Embed() discord.Embed {
	poll := b.tally.Poll

	title := utils.TruncateString(poll.Question, constants.MaxQuestionLength)
	if poll.Closed {
		title += constants.PollClosedSuffix
	}

	embed := discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(fmt.Sprintf("Total votes: %d", b.tally.Total)).
		SetColor(constants.DefaultEmbedColor).
		SetFooterText(fmt.Sprintf("%s poll #%d", poll.Type.String(), poll.ID))

	for _, option := range b.tally.Options {
		name := fmt.Sprintf("%s: %d",
			utils.TruncateString(option.Option.Label, constants.MaxFieldNameLength), len(option.Voters))

		value := constants.NoVotes
		if len(option.Voters) > 0 {
			value = utils.FormatIDs(option.Voters, constants.MaxVoterMentions)
		}

		embed.AddField(name, value, false)
	}

	return embed.Build()
}

// Components renders the voting controls. Closed polls have none.
func (b *Builder) Components() ([]discord.ContainerComponent, error) {
	if b.tally.Poll.Closed {
		return nil, nil
	}

	switch b.tally.Poll.Type {
	case enum.PollTypeBinary:
		return b.buttons()
	case enum.PollTypeMultiple:
		return b.selectMenu()
	}

	return nil, fmt.Errorf("%w: unknown poll type %d", interaction.ErrValidation, b.tally.Poll.Type)
}

// BuildCreate creates the message posted for a new or re-shown poll.
func (b *Builder) BuildCreate() (*discord.MessageCreateBuilder, error) {
	components, err := b.Components()
	if err != nil {
		return nil, err
	}

	return discord.NewMessageCreateBuilder().
		SetEmbeds(b.Embed()).
		SetContainerComponents(components...).
		SetAllowedMentions(&discord.AllowedMentions{}), nil
}

// BuildUpdate creates the edit applied after a vote or a close.
func (b *Builder) BuildUpdate() (*discord.MessageUpdateBuilder, error) {
	components, err := b.Components()
	if err != nil {
		return nil, err
	}

	builder := discord.NewMessageUpdateBuilder().
		SetEmbeds(b.Embed()).
		SetAllowedMentions(&discord.AllowedMentions{})

	if len(components) == 0 {
		return builder.ClearContainerComponents(), nil
	}
	return builder.SetContainerComponents(components...), nil
}

func (b *Builder) buttons() ([]discord.ContainerComponent, error) {
	buttons := make([]discord.InteractiveComponent, 0, len(b.tally.Options))

	for i, option := range b.tally.Options {
		customID, err := interaction.EncodeCustomID(VotePayload{
			Name:   constants.VoteComponentName,
			Poll:   b.tally.Poll.ID,
			Option: option.Option.ID,
		})
		if err != nil {
			return nil, err
		}

		label := utils.ClampString(option.Option.Label, constants.MaxOptionLabelLength)
		if i == 0 {
			buttons = append(buttons, discord.NewSuccessButton(label, customID))
		} else {
			buttons = append(buttons, discord.NewDangerButton(label, customID))
		}
	}

	return []discord.ContainerComponent{discord.NewActionRow(buttons...)}, nil
}

func (b *Builder) selectMenu() ([]discord.ContainerComponent, error) {
	customID, err := interaction.EncodeCustomID(VotePayload{
		Name: constants.VoteComponentName,
		Poll: b.tally.Poll.ID,
	})
	if err != nil {
		return nil, err
	}

	options := make([]discord.StringSelectMenuOption, 0, len(b.tally.Options))
	for _, option := range b.tally.Options {
		options = append(options, discord.NewStringSelectMenuOption(
			utils.ClampString(option.Option.Label, constants.MaxOptionLabelLength),
			strconv.FormatInt(option.Option.ID, 10),
		))
	}

	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewStringSelectMenu(customID, constants.PollSelectPrompt, options...),
		),
	}, nil
}
